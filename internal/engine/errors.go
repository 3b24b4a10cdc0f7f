package engine

import "errors"

// ErrGameOver is returned when asked to move in a finished game.
var ErrGameOver = errors.New("engine: game is over")
