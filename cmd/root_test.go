package main

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegis-locate/aegis-seed/internal/config"
	"github.com/aegis-locate/aegis-seed/internal/locate"
	"github.com/aegis-locate/aegis-seed/internal/store"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"generate", "serve", "send"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "aegis-seed", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestGenerateCommand_Flags(t *testing.T) {
	for name, def := range map[string]string{
		"seed":        "0",
		"excavators":  "50",
		"employees":   "25",
		"tickets":     "1000",
		"damages":     "100",
		"format":      "json",
		"out":         "data",
		"schema":      "public",
		"upsert":      "false",
		"skip-demos":  "false",
		"sqlite":      "",
		"postgres":    "",
		"workbook":    "",
		"territories": "",
	} {
		flag := generateCmd.Flags().Lookup(name)
		require.NotNil(t, flag, "generate should have --%s flag", name)
		assert.Equal(t, def, flag.DefValue, name)
	}
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestSendCommand_Flags(t *testing.T) {
	for _, name := range []string{"url", "seed", "tickets", "sample", "concurrency"} {
		assert.NotNil(t, sendCmd.Flags().Lookup(name), "send should have --%s flag", name)
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Generate: config.GenerateConfig{Seed: 11, Excavators: 20, Employees: 5, Tickets: 30, Damages: 10, Hotspots: 5},
		Output:   config.OutputConfig{Format: "json"},
		Store:    config.StoreConfig{Schema: "public"},
		Ingest:   config.IngestConfig{Port: 3000, WebhookSecret: "dev_secret", RateLimit: 60, BodyLimitKB: 100},
		Client:   config.ClientConfig{URL: "http://localhost:3000", TimeoutSecs: 5, MaxAttempts: 2, InitialBackoffMs: 1, MaxBackoffMs: 2},
	}
}

func TestOpenSinks_NoneConfigured(t *testing.T) {
	_, err := openSinks(context.Background(), testConfig())
	assert.Error(t, err)
}

func TestOpenSinks_FilesAndSQLite(t *testing.T) {
	dir := t.TempDir()
	c := testConfig()
	c.Output.Dir = filepath.Join(dir, "out")
	c.Output.Workbook = filepath.Join(dir, "seed.xlsx")
	c.Store.SQLitePath = filepath.Join(dir, "seed.db")

	sinks, err := openSinks(context.Background(), c)
	require.NoError(t, err)
	require.Len(t, sinks, 3)
	assert.IsType(t, &store.DirSink{}, sinks[0])
	assert.IsType(t, &store.SQLiteSink{}, sinks[1])
	assert.IsType(t, &store.WorkbookSink{}, sinks[2])
	require.NoError(t, sinks.Close())
}

func TestPipelineOptions(t *testing.T) {
	c := testConfig()
	c.Output.Territories = "zones.shp"
	opts := pipelineOptions(c, nil)

	assert.EqualValues(t, 11, opts.Seed)
	assert.Equal(t, 30, opts.Tickets)
	assert.Equal(t, "zones.shp", opts.TerritoriesPath)
}

func TestGenerateCommand_WritesFiles(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	rootCmd.SetArgs([]string{"generate", "--seed", "5", "--excavators", "20", "--employees", "4",
		"--tickets", "12", "--damages", "6", "--out", "seed-out"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	require.NoError(t, rootCmd.Execute())

	for _, name := range []string{store.Excavators, store.Employees, store.Tickets, store.Damages, store.Summary} {
		assert.FileExists(t, filepath.Join(dir, "seed-out", name+".json"))
	}
}

func TestSendPayloads(t *testing.T) {
	t.Cleanup(func() { sendFlags.sample, sendFlags.tickets = false, 0 })

	sendFlags.sample = true
	got, err := sendPayloads()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "TX811-POC-001", got[0].TicketNumber)

	sendFlags.sample = false
	sendFlags.seed = 3
	sendFlags.tickets = 4
	got, err = sendPayloads()
	require.NoError(t, err)
	assert.Len(t, got, 7)
	for _, p := range got {
		assert.NoError(t, p.Validate())
	}
}

func TestSendAgainstIngestHandler(t *testing.T) {
	c := testConfig()
	srv := httptest.NewServer(newIngestHandler(c.Ingest))
	defer srv.Close()
	c.Client.URL = srv.URL

	resp, err := newLocateClient(c).Send(context.Background(), samplePayload())
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "TX811-POC-001", resp.Ticket)

	c.Ingest.WebhookSecret = "wrong"
	_, err = newLocateClient(c).Send(context.Background(), samplePayload())
	var serr *locate.StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 401, serr.StatusCode)
}
