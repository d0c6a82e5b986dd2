// Package suggest offers "did you mean" file names for paths that do not
// exist.
package suggest

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sajari/fuzzy"
)

// Similar returns up to limit names of regular files next to path whose
// names are close to path's base name. The base name itself is never
// returned. An unreadable directory yields nothing.
func Similar(path string, limit int) []string {
	if limit <= 0 {
		return nil
	}
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	model := fuzzy.NewModel()
	model.SetDepth(2)
	// Each name is trained once, and suggestion keys are only built when a
	// word's count reaches the threshold.
	model.SetThreshold(1)

	// The model folds case, so keep every spelling of each folded name.
	names := make(map[string][]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		folded := strings.ToLower(e.Name())
		if _, seen := names[folded]; !seen {
			model.TrainWord(folded)
		}
		names[folded] = append(names[folded], e.Name())
	}
	if len(names) == 0 {
		return nil
	}

	var out []string
	for _, s := range model.Suggestions(strings.ToLower(base), false) {
		for _, name := range names[s] {
			if name != base {
				out = append(out, name)
			}
		}
	}
	slices.Sort(out)
	out = slices.Compact(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
