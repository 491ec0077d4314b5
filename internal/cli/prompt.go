package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/debloatkit/debloat/internal/platform"
	"github.com/debloatkit/debloat/internal/reconcile"
)

// errAborted is returned when the user cancels a prompt.
var errAborted = errors.New("aborted")

// Swapped out by tests.
var (
	runFormFunc   = func(form *huh.Form) error { return form.Run() }
	isInteractive = platform.IsInteractive
)

func runForm(form *huh.Form) error {
	if !isInteractive() {
		return errors.New("interactive selection requires a terminal")
	}
	err := runFormFunc(form)
	if errors.Is(err, huh.ErrUserAborted) {
		return errAborted
	}
	return err
}

// pickEntries shows a multi-select of entries and returns the chosen ids
// in catalog order.
func pickEntries(title string, entries []reconcile.Entry) ([]string, error) {
	opts := make([]huh.Option[string], len(entries))
	for i, e := range entries {
		label := fmt.Sprintf("%s  [%s]", e.Name, e.Category)
		if e.Installed {
			label += "  (installed)"
		}
		if !e.Safe {
			label += "  (!)"
		}
		opts[i] = huh.NewOption(label, e.ID)
	}

	var selected []string
	err := runForm(huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title(title).
				Filterable(true).
				Options(opts...).
				Value(&selected),
		),
	))
	if err != nil {
		return nil, err
	}

	chosen := make(map[string]bool, len(selected))
	for _, id := range selected {
		chosen[id] = true
	}
	var ids []string
	for _, e := range entries {
		if chosen[e.ID] {
			ids = append(ids, e.ID)
		}
	}
	return ids, nil
}

// confirm asks a yes/no question; the default answer is no.
func confirm(title string) (bool, error) {
	var ok bool
	err := runForm(huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	))
	return ok, err
}
