package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/winsession/internal/adapters/headless"
	logAdapter "github.com/bft-labs/winsession/internal/adapters/log"
	"github.com/bft-labs/winsession/internal/cliconfig"
	"github.com/bft-labs/winsession/internal/resource"
	"github.com/bft-labs/winsession/pkg/winsession"
	"github.com/bft-labs/winsession/plugins/settingswatcher"
)

const longHelp = `Resolve open requests of a multi-window application into windows.

winsession keeps the window state, backup and recents documents of an
application in its data directory and decides, for every request, which
window a folder or file goes to. Windows are simulated by a headless host,
so every command prints the windows it created and the events it sent.

Configuration is read from the config file, then WINSESSION_* environment
variables, then flags.`

var exampleUsage = strings.TrimSpace(`
  winsession open ~/src/project
  winsession open --context desktop ~/notes.txt
  winsession open --initial-startup
  winsession state
  winsession --data-dir /tmp/ws recents
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return winsession.Version
}

var json = sonic.ConfigStd

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string
	log := cliconfig.Logger(cfg.LogLevel)

	root := &cobra.Command{
		Use:           "winsession",
		Short:         "Resolve open requests of a multi-window application into windows",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				cliconfig.ApplyFileConfig(&cfg, fc, changed)
			}

			// WINSESSION_* override the file; set flags override both.
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			log = cliconfig.Logger(cfg.LogLevel)
			log.Debug().Interface("config", cfg).Msg("configuration")
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.winsession/config.toml)")
	pf.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory holding the session documents")
	pf.StringVar(&cfg.BackupDir, "backup-dir", cfg.BackupDir, "root of backup staging paths (defaults to data-dir/Backups)")
	pf.StringVar(&cfg.SettingsPath, "settings", cfg.SettingsPath, "window settings file (defaults to data-dir/settings.toml)")
	pf.StringVar(&cfg.DefaultURL, "default-url", cfg.DefaultURL, "URL loaded into new windows")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	pf.BoolVar(&cfg.Watch, "watch", cfg.Watch, "keep running after the request and reload settings on change")

	newSession := func() (*winsession.Session, error) {
		opts := []winsession.Option{
			winsession.WithLogger(logAdapter.NewZerologAdapterWithLogger(log)),
		}
		if cfg.Watch {
			opts = append(opts, settingswatcher.WithDefaultSettingsWatcher())
		}
		return winsession.New(winsession.Config{
			DataDir:      cfg.DataDir,
			BackupDir:    cfg.BackupDir,
			SettingsPath: cfg.SettingsPath,
			DefaultURL:   cfg.DefaultURL,
		}, opts...)
	}

	// run starts a session, calls fn and stops the session, waiting for a
	// signal first when watching.
	run := func(fn func(s *winsession.Session) (any, error)) error {
		s, err := newSession()
		if err != nil {
			return fmt.Errorf("create session: %w", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if err := s.Start(ctx); err != nil {
			return fmt.Errorf("start session: %w", err)
		}

		out, fnErr := fn(s)
		if fnErr == nil && out != nil {
			fnErr = printJSON(os.Stdout, out)
		}

		if fnErr == nil && cfg.Watch {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			log.Info().Str("settings", cfg.SettingsPath).Msg("watching, press Ctrl+C to stop")
			<-sigCh
			log.Info().Msg("received signal, stopping...")
		}

		if err := s.Stop(); err != nil {
			log.Error().Err(err).Msg("stop session")
			if fnErr == nil {
				fnErr = err
			}
		}
		return fnErr
	}

	root.AddCommand(
		openCommand(run),
		emptyCommand(run),
		inspectCommand("state", "Print the cached window state", run, func(s *winsession.Session) (any, error) {
			return s.WindowStates(), nil
		}),
		inspectCommand("recents", "Print recently opened files and folders", run, func(s *winsession.Session) (any, error) {
			return s.Recents(), nil
		}),
		inspectCommand("backups", "Print registered backup staging entries", run, func(s *winsession.Session) (any, error) {
			return s.Backups(), nil
		}),
		inspectCommand("settings", "Print the window settings in effect", run, func(s *winsession.Session) (any, error) {
			return s.Settings(), nil
		}),
		inspectCommand("clear-recents", "Forget every recently opened entry", run, func(s *winsession.Session) (any, error) {
			return nil, s.ClearRecents()
		}),
	)

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("winsession")
		os.Exit(1)
	}
}

type runFunc func(fn func(s *winsession.Session) (any, error)) error

// openResult is printed after an open request.
type openResult struct {
	Window  string      `json:"window"`
	Windows []hostEntry `json:"windows"`
}

type hostEntry struct {
	ID     string   `json:"id"`
	URL    string   `json:"url"`
	Events []string `json:"events,omitempty"`
}

// resultFor lists the host's windows with the events each one received.
func resultFor(s *winsession.Session, id string) openResult {
	res := openResult{Window: id}
	h, ok := s.Host().(*headless.Host)
	if !ok {
		return res
	}
	events := map[string][]string{}
	for _, e := range h.Emissions() {
		events[e.Window] = append(events[e.Window], e.Event)
	}
	for _, w := range h.Windows() {
		res.Windows = append(res.Windows, hostEntry{ID: w.ID, URL: w.URL, Events: events[w.ID]})
	}
	return res
}

func openCommand(run runFunc) *cobra.Command {
	var (
		openCtx        string
		label          string
		newWindow      bool
		reuseWindow    bool
		empty          bool
		preferNew      bool
		initialStartup bool
		addFolders     []string
	)

	cmd := &cobra.Command{
		Use:   "open [paths...]",
		Short: "Open files and folders, or restore the last session",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := winsession.ParseOpenContext(openCtx)
			if err != nil {
				return err
			}
			uris, err := openables(args)
			if err != nil {
				return err
			}
			folders := make([]string, 0, len(addFolders))
			for _, f := range addFolders {
				abs, err := filepath.Abs(f)
				if err != nil {
					return err
				}
				folders = append(folders, abs)
			}

			return run(func(s *winsession.Session) (any, error) {
				id, err := s.OpenWindow(winsession.OpenConfiguration{
					Label:            label,
					URIsToOpen:       uris,
					FoldersToAdd:     folders,
					Context:          ctx,
					ForceNewWindow:   newWindow,
					ForceReuseWindow: reuseWindow,
					ForceEmptyWindow: empty,
					PreferNewWindow:  preferNew,
					InitialStartup:   initialStartup,
				})
				if err != nil {
					return nil, err
				}
				return resultFor(s, id), nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&openCtx, "context", "cli", "request context (api, cli, dock, menu, dialog, desktop)")
	f.StringVar(&label, "label", "", "label of the first window created")
	f.BoolVarP(&newWindow, "new-window", "n", false, "force a new window")
	f.BoolVarP(&reuseWindow, "reuse-window", "r", false, "force reusing the last active window")
	f.BoolVar(&empty, "empty", false, "open an empty window, ignoring paths")
	f.BoolVar(&preferNew, "prefer-new-window", false, "prefer a new window for folders")
	f.BoolVar(&initialStartup, "initial-startup", true, "treat the request as application startup")
	f.StringSliceVar(&addFolders, "add", nil, "folders to add to the last active window")
	return cmd
}

func emptyCommand(run runFunc) *cobra.Command {
	var (
		label       string
		reuseWindow bool
	)
	cmd := &cobra.Command{
		Use:   "empty",
		Short: "Open an untitled window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(s *winsession.Session) (any, error) {
				id, err := s.OpenEmptyWindow(
					winsession.OpenConfiguration{Context: winsession.ContextCLI},
					winsession.WindowOptions{Label: label, ForceReuseWindow: reuseWindow},
				)
				if err != nil {
					return nil, err
				}
				return resultFor(s, id), nil
			})
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "window label")
	cmd.Flags().BoolVarP(&reuseWindow, "reuse-window", "r", false, "reuse the last active window")
	return cmd
}

func inspectCommand(use, short string, run runFunc, fn func(s *winsession.Session) (any, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(fn)
		},
	}
}

// openables turns command line paths into absolute openables, classified
// by what is on disk.
func openables(paths []string) ([]winsession.Openable, error) {
	out := make([]winsession.Openable, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		if resource.Classify(abs).IsFolder() {
			out = append(out, winsession.Openable{Folder: abs})
		} else {
			out = append(out, winsession.Openable{File: abs})
		}
	}
	return out, nil
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
