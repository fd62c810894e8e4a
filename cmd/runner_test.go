package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/melodex/internal/services"
	"github.com/desertthunder/melodex/internal/shared"
	mocks "github.com/desertthunder/melodex/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			jamendo := services.NewJamendoService("id", &mocks.MockFetcher{}, nil)
			listenbz := services.NewListenBrainzService("token", &mocks.MockFetcher{}, nil)

			runner := NewRunner(RunnerOpts{
				Config:       config,
				Logger:       logger,
				Output:       output,
				Jamendo:      jamendo,
				ListenBrainz: listenbz,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.jamendo != jamendo {
				t.Error("expected jamendo to be set")
			}
			if runner.listenbz != listenbz {
				t.Error("expected listenbrainz to be set")
			}
			if runner.aggregator == nil || runner.resolver == nil {
				t.Error("expected task engines to be constructed")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

		commands := runner.register()
		if len(commands) == 0 {
			t.Fatal("expected commands to be registered")
		}

		names := map[string]bool{}
		for _, cmd := range commands {
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "search", "track", "album", "artist", "setlist", "scrobble", "recs", "listens", "token", "serve", "tui"} {
			if !names[want] {
				t.Errorf("expected %s command to be registered", want)
			}
		}
	})

	t.Run("writeJSON", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := strings.TrimSpace(output.String()); got != `{"key":"value"}` {
			t.Errorf("unexpected output: %s", got)
		}

		t.Run("pretty", func(t *testing.T) {
			output.Reset()
			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), "\n  \"key\"") {
				t.Errorf("expected indented output, got %s", output.String())
			}
		})

		t.Run("failing writer", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &mocks.FWriter{}})
			if err := runner.writeJSON("data", false); err == nil {
				t.Error("expected error from failing writer")
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlain("hello %s\n", "world"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "hello world\n" {
			t.Errorf("unexpected output: %q", output.String())
		}
	})
}

func TestSetupAction(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{Output: output})

	app := setupCommand(runner)
	if err := app.Run(context.Background(), []string{"setup", "--config", configPath}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := os.Stat(configPath); err != nil {
		t.Fatalf("expected config file to exist: %v", err)
	}
	if !strings.Contains(output.String(), "Configuration file created") {
		t.Errorf("unexpected output: %s", output.String())
	}

	t.Run("existing file rejected", func(t *testing.T) {
		if err := app.Run(context.Background(), []string{"setup", "--config", configPath}); err == nil {
			t.Error("expected error for existing config file")
		}
	})
}

func TestSearchActionRequiresQuery(t *testing.T) {
	runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

	app := searchCommand(runner)
	if err := app.Run(context.Background(), []string{"search"}); err == nil {
		t.Error("expected error for missing query argument")
	}
}

func TestSearchActionThroughMockFetcher(t *testing.T) {
	emptyList := []byte(`{"results": []}`)
	jamendo := services.NewJamendoService("id", &mocks.MockFetcher{Responses: map[string][]byte{
		"/tracks/": []byte(`{"results": [{
			"id": "168", "name": "Ambient Dawn", "artist_name": "Nightdrive",
			"duration": 185, "audio": "https://prod-1.jamendo.com/?trackid=168"
		}]}`),
		"/albums/":  emptyList,
		"/artists/": emptyList,
	}}, nil)

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{Output: output, Jamendo: jamendo})

	app := searchCommand(runner)
	if err := app.Run(context.Background(), []string{"search", "nightdrive"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !strings.Contains(output.String(), "Ambient Dawn") {
		t.Errorf("expected track in output:\n%s", output.String())
	}
}
