//go:build js && wasm

package game

import "errors"

var errNoDialogs = errors.New("file dialogs are not available in the browser")

func openGhostDialog(dir string) (string, bool, error) {
	return "", false, errNoDialogs
}

func saveGhostDialog(defaultPath string) (string, bool, error) {
	return "", false, errNoDialogs
}
