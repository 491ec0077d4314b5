//go:build integration

package integration_test

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/debloatkit/debloat/internal/batch"
	"github.com/debloatkit/debloat/internal/catalog"
	"github.com/debloatkit/debloat/internal/engine"
	"github.com/debloatkit/debloat/internal/history"
	"github.com/debloatkit/debloat/internal/inventory"
	"github.com/debloatkit/debloat/internal/manifest"
	"github.com/debloatkit/debloat/internal/metrics"
	"github.com/debloatkit/debloat/internal/runner"
	"github.com/debloatkit/debloat/internal/userdata"
)

// installedJSON mimics Get-AppxPackage | ConvertTo-Json output.
const installedJSON = `[{"Name":"Microsoft.XboxApp","PackageFullName":"Microsoft.XboxApp_48.49.31001.0_x64__8wekyb3d8bbwe","Version":"48.49.31001.0","Publisher":"CN=Microsoft Corporation"},{"Name":"Microsoft.BingWeather","PackageFullName":"Microsoft.BingWeather_4.53.51922.0_x64__8wekyb3d8bbwe","Version":"4.53.51922.0","Publisher":"CN=Microsoft Corporation"}]`

func sources(env *testEnv) []manifest.Source {
	return append([]manifest.Source{{Name: "catalog", BasePath: env.CatalogDir}},
		manifest.ExtensionSources(userdata.GetExtensionsRoot())...)
}

// TestFullFlowReconcileApplyRollback loads a multi-format catalog with an
// extension, reconciles it against a real process's package listing, runs
// a preset and a rollback through sh, and checks history and metrics.
func TestFullFlowReconcileApplyRollback(t *testing.T) {
	env := setupTestEnv(t)
	stateDir := t.TempDir()
	setupCatalog(t, env, stateDir)

	// Step 1: load every source into one store.
	store, err := manifest.LoadSources(sources(env))
	if err != nil {
		t.Fatalf("LoadSources: %v", err)
	}
	if store.Len() != 5 {
		t.Fatalf("store has %d entries, want 5", store.Len())
	}

	// Step 2: build the engine around a real shell.
	sh := runner.WithTimeout(runner.NewShell(), 0)
	rec := metrics.NewTextfile(filepath.Join(env.HomeDir, userdata.MetricsFile))
	eng, err := engine.New(engine.Options{
		Catalog:   store,
		Inventory: inventory.CommandEnumerator{Runner: sh, Command: "printf '%s' '" + installedJSON + "'"},
		Runner:    sh,
		Metrics:   rec,
	})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}

	// Step 3: reconcile.
	status, err := eng.ReconcileStatus(context.Background())
	if err != nil {
		t.Fatalf("ReconcileStatus: %v", err)
	}
	installed := map[string]bool{}
	for _, e := range status {
		installed[e.ID] = e.Installed
	}
	want := map[string]bool{"xbox": true, "weather": true, "telemetry": false, "fax": false, "extra": false}
	if !reflect.DeepEqual(installed, want) {
		t.Errorf("installed = %v, want %v", installed, want)
	}

	// Step 4: expand a preset that spans the catalog and the extension.
	presets, err := manifest.LoadPresets(sources(env))
	if err != nil {
		t.Fatalf("LoadPresets: %v", err)
	}
	p, err := catalog.FindPreset(presets, "everyday")
	if err != nil {
		t.Fatal(err)
	}
	ids, unknown := store.ExpandPreset(p)
	if len(unknown) != 0 {
		t.Errorf("unknown preset ids: %v", unknown)
	}

	// Step 5: apply the preset plus the failing weather entry in the middle.
	reqs := batch.Requests(batch.ModeNormal, ids[0], "weather", ids[1], ids[2])
	report, err := eng.ExecuteBatch(context.Background(), reqs)
	if err != nil {
		t.Fatalf("ExecuteBatch: %v", err)
	}
	if got := batch.IDs(report.Failed()); !reflect.DeepEqual(got, []string{"weather"}) {
		t.Errorf("failed = %v, want [weather]", got)
	}
	if msg := report.Items[1].Result.ErrorMessage(); msg != "package is in use" {
		t.Errorf("weather error = %q", msg)
	}
	if got := readLines(t, filepath.Join(stateDir, "log")); !reflect.DeepEqual(got, []string{"xbox", "weather", "fax", "extra"}) {
		t.Errorf("execution order = %v", got)
	}

	// Step 6: roll back; weather has no rollback command.
	rb, err := eng.ExecuteBatch(context.Background(), batch.Requests(batch.ModeRollback, "xbox", "weather"))
	if err != nil {
		t.Fatalf("ExecuteBatch rollback: %v", err)
	}
	if !rb.Items[0].Result.Success || rb.Items[1].Result.ErrorMessage() != batch.ErrNoRollback.Error() {
		t.Errorf("rollback results = %+v", rb.Results())
	}

	// Step 7: history and metrics.
	hist := history.NewStore(userdata.GetHistoryPath())
	for _, r := range []batch.Report{report, rb} {
		if _, err := hist.Append(history.EntryFor(r)); err != nil {
			t.Fatalf("history Append: %v", err)
		}
	}
	entries, err := hist.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Kind != history.KindRollback {
		t.Errorf("history = %+v", entries)
	}

	if err := rec.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	promFile := filepath.Join(env.HomeDir, userdata.MetricsFile)
	assertFileContains(t, promFile, `debloat_operations_total{mode="normal",result="success"} 3`)
	assertFileContains(t, promFile, `debloat_operations_total{mode="rollback",result="failure"} 1`)
}

// TestDuplicateAcrossExtensionFailsFast checks that an id defined in both
// the catalog and an extension rejects the whole catalog.
func TestDuplicateAcrossExtensionFailsFast(t *testing.T) {
	env := setupTestEnv(t)
	setupCatalog(t, env, t.TempDir())
	writeFile(t, filepath.Join(env.ExtensionDir, "apps.yaml"), `items:
  - id: xbox
    name: Shadow
    command: echo shadow
`)

	_, err := manifest.LoadSources(sources(env))
	var ierr *catalog.IntegrityError
	if !errors.As(err, &ierr) {
		t.Fatalf("LoadSources error = %v, want *catalog.IntegrityError", err)
	}
	if ierr.Kind != catalog.KindDuplicateID || ierr.ID != "xbox" {
		t.Errorf("IntegrityError = %+v", ierr)
	}
}
