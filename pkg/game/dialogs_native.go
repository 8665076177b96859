//go:build !js

package game

import (
	"errors"
	"path/filepath"

	"github.com/ncruces/zenity"
)

var ghostFileFilters = zenity.FileFilters{
	{
		Name:     "Ghost laps",
		Patterns: []string{"*.json", "*.json.zst", "*.msgpack", "*.msgpack.zst"},
		CaseFold: true,
	},
}

// openGhostDialog asks for a ghost file to import. ok is false when the user
// cancelled.
func openGhostDialog(dir string) (path string, ok bool, err error) {
	path, err = zenity.SelectFile(
		zenity.Title("Import Ghost Lap"),
		zenity.Filename(dir+string(filepath.Separator)),
		ghostFileFilters,
	)
	return dialogAnswer(path, err)
}

// saveGhostDialog asks where to export the ghost lap.
func saveGhostDialog(defaultPath string) (path string, ok bool, err error) {
	path, err = zenity.SelectFileSave(
		zenity.Title("Export Ghost Lap"),
		zenity.Filename(defaultPath),
		zenity.ConfirmOverwrite(),
		ghostFileFilters,
	)
	return dialogAnswer(path, err)
}

func dialogAnswer(path string, err error) (string, bool, error) {
	if errors.Is(err, zenity.ErrCanceled) {
		return "", false, nil
	} else if err != nil {
		return "", false, err
	}
	return path, true, nil
}
