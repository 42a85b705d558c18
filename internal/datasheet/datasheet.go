// Package datasheet downloads the documents linked from each component
// group's Datasheet field into a local folder.
package datasheet

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/netlist"
)

const (
	// DefaultDir is created under the working directory.
	DefaultDir = "datasheets"

	downloadTimeout = 2 * time.Second
)

type Downloader struct {
	Dir  string
	HTTP *http.Client
	Log  *zap.SugaredLogger
}

func New(dir string, log *zap.SugaredLogger) *Downloader {
	return &Downloader{
		Dir:  dir,
		HTTP: &http.Client{Timeout: downloadTimeout},
		Log:  log,
	}
}

// DownloadAll fetches every valid Datasheet URL in the grouped components.
// Individual failures skip that one file; only failing to create the
// download directory abandons the whole batch.
func (d *Downloader) DownloadAll(groups [][]*netlist.Component) error {
	if err := os.Mkdir(d.Dir, 0o755); err != nil && !os.IsExist(err) {
		return fmt.Errorf("unable to create '%s' folder, will not download datasheets: %w", d.Dir, err)
	}

	targets := collectTargets(groups, d.Dir, d.Log)
	for file, url := range targets {
		if err := d.download(file, url); err != nil {
			d.Log.Warnf("URL '%s' failed - skipping: %v", url, err)
			continue
		}
		d.Log.Infof("Downloaded '%s'.", filepath.Base(file))
	}
	d.Log.Infof("Datasheets downloaded in '%s'.", d.Dir)
	return nil
}

// collectTargets maps local file paths to their source URLs. KiCad leaves
// "~" in unset Datasheet fields; those and anything that is not an http(s)
// URL are skipped. Extensionless names get .pdf.
func collectTargets(groups [][]*netlist.Component, dir string, log *zap.SugaredLogger) map[string]string {
	targets := map[string]string{}
	for _, group := range groups {
		for _, comp := range group {
			url := comp.Field("Datasheet")
			if url == "" || url == "~" {
				continue
			}
			if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
				log.Warnf("URL '%s' is not valid - skipping.", url)
				continue
			}
			name := path.Base(url)
			if name == "" || name == "/" || name == "." {
				log.Warnf("URL '%s' is not valid - skipping.", url)
				continue
			}
			if path.Ext(name) == "" {
				name += ".pdf"
			}
			targets[filepath.Join(dir, name)] = url
		}
	}
	return targets
}

func (d *Downloader) download(file, url string) error {
	resp, err := d.HTTP.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, resp.Body)
	return err
}
