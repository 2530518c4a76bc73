//go:build !linux

package kernel

import "errors"

func Get() (Version, error) {
	return Version{}, errors.New("kernel: version is only available on linux")
}
