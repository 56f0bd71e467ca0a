package quiteok

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/exp/slices"
)

var errOutputCollision = errors.New("output name collision")

func fileExt(file string) string {
	return strings.ToLower(filepath.Ext(file))
}

func exists(file string) (bool, error) {
	_, err := os.Stat(file)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, err
	}
}

func (c *Converter) findImages(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		seen := make(map[string]string)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if file != base && info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal file
			if !info.Mode().IsRegular() {
				return nil
			}

			if !slices.Contains(c.cfg.Extensions, fileExt(file)) {
				return nil
			}

			if c.cfg.MaxSize > 0 && info.Size() > c.cfg.MaxSize {
				c.logger.Printf("Skipping \"%s\", %d bytes is too big\n", file, info.Size())
				return nil
			}

			// Two sources differing only by extension would share an output
			dst := outputName(file, c.cfg.Compress)
			if other, ok := seen[dst]; ok {
				return fmt.Errorf("%w: \"%s\" and \"%s\" both convert to \"%s\"", errOutputCollision, other, file, dst)
			}
			seen[dst] = file

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (c *Converter) imageWorker(ctx context.Context, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			// Keep draining so the walker is never left blocked
			if ctx.Err() != nil {
				continue
			}

			dst := outputName(file, c.cfg.Compress)

			if !c.cfg.Overwrite {
				ok, err := exists(dst)
				if err != nil {
					errc <- err
					return
				}
				if ok {
					c.logger.Printf("Skipping \"%s\", \"%s\" exists\n", file, dst)
					continue
				}
			}

			if _, err := c.EncodeFile(file, dst); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc, nil
}

// waitForPipeline waits for every stage to finish and returns the first
// error any of them reported. The first error also cancels the pipeline so
// the remaining stages wind down.
func waitForPipeline(cancel context.CancelFunc, errs ...<-chan error) error {
	var first error
	for err := range mergeErrors(errs...) {
		if err != nil && first == nil {
			first = err
			cancel()
		}
	}
	return first
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan walks path converting every image it finds to a QOI file alongside
// it. Each image is encoded by a single worker, only separate files are
// converted in parallel.
func (c *Converter) Scan(path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := c.findImages(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < c.cfg.Workers; i++ {
		errc, err := c.imageWorker(ctx, files)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(cancelFunc, errcList...)
}
