//go:build tinygo || !cgo

package orbitaux

import (
	"errors"

	"github.com/soypat/geometry/ms3"
)

func ui(model []ms3.Triangle, cfg UIConfig) error {
	return errors.New("require cgo for UI rendering")
}
