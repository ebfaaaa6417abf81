package orbitaux

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/soypat/orbit"
)

// LoadConfig reads the TOML controls configuration at path. See [orbit.DecodeConfig].
func LoadConfig(path string) (orbit.Config, error) {
	fp, err := os.Open(path)
	if err != nil {
		return orbit.Config{}, err
	}
	defer fp.Close()
	cfg, err := orbit.DecodeConfig(fp)
	if err != nil {
		return orbit.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ConfigWatcher reloads a controls configuration file whenever it is written.
type ConfigWatcher struct {
	path    string
	log     *log.Logger
	fsWatch *fsnotify.Watcher
	updates chan orbit.Config
	errors  chan error
	done    chan struct{}
	wg      sync.WaitGroup
	closed  bool
}

// WatchConfig starts watching the configuration file at path. The file's directory
// is watched so that editors which replace the file on save are also detected.
func WatchConfig(path string, logger *log.Logger) (*ConfigWatcher, error) {
	if logger == nil {
		logger = log.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	err = fsWatch.Add(filepath.Dir(abs))
	if err != nil {
		fsWatch.Close()
		return nil, err
	}
	cw := &ConfigWatcher{
		path:    abs,
		log:     logger,
		fsWatch: fsWatch,
		updates: make(chan orbit.Config, 1),
		errors:  make(chan error, 1),
		done:    make(chan struct{}),
	}
	cw.wg.Add(1)
	go cw.run()
	return cw, nil
}

// Updates delivers the latest successfully decoded configuration. Only the
// most recent unread configuration is kept.
func (cw *ConfigWatcher) Updates() <-chan orbit.Config { return cw.updates }

// Errors delivers decoding and watch errors. Errors are dropped if not read.
func (cw *ConfigWatcher) Errors() <-chan error { return cw.errors }

// Close stops watching. Calling Close again returns an error.
func (cw *ConfigWatcher) Close() error {
	if cw.closed {
		return errors.New("config watcher already closed")
	}
	cw.closed = true
	close(cw.done)
	err := cw.fsWatch.Close()
	cw.wg.Wait()
	return err
}

func (cw *ConfigWatcher) run() {
	defer cw.wg.Done()
	for {
		select {
		case <-cw.done:
			return
		case e, ok := <-cw.fsWatch.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != cw.path || !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
				continue
			}
			cfg, err := LoadConfig(cw.path)
			if err != nil {
				cw.log.Warn("controls config not reloaded", "path", cw.path, "err", err)
				cw.sendErr(err)
				continue
			}
			cw.log.Info("controls config reloaded", "path", cw.path)
			// Replace a stale unread config.
			select {
			case <-cw.updates:
			default:
			}
			cw.updates <- cfg
		case err, ok := <-cw.fsWatch.Errors:
			if !ok {
				return
			}
			cw.sendErr(err)
		}
	}
}

func (cw *ConfigWatcher) sendErr(err error) {
	select {
	case cw.errors <- err:
	default:
	}
}
