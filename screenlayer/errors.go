package screenlayer

import (
	"errors"
	"fmt"

	"github.com/valerio/go-screenlayer/screenlayer/id"
)

// ErrNoSuchLayer is matched by every lookup failure.
var ErrNoSuchLayer = errors.New("no such layer")

// NoSuchLayerError reports that no layer with ID lives in the controller.
type NoSuchLayerError struct {
	ID id.ID
}

func (e *NoSuchLayerError) Error() string {
	return fmt.Sprintf("screenlayer: no layer with id %d", uint64(e.ID))
}

// Is makes errors.Is(err, ErrNoSuchLayer) hold.
func (e *NoSuchLayerError) Is(target error) bool {
	return target == ErrNoSuchLayer
}
