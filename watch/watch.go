// Package watch ingests structure files dropped into the configured folder:
// an initial scan plus an fsnotify watch, hashing each file and saving it to
// the structure store with its file metadata as attributes.
package watch

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/fxamacker/cbor/v2"
	"github.com/gabriel-vasile/mimetype"
	"github.com/latticelab/xtal/config"
	"github.com/latticelab/xtal/database"
	"github.com/latticelab/xtal/util"
)

func checkShouldIncludeFile(info fs.FileInfo) bool {
	whiteListExtension := config.GetConfig().Watch.FileExtensions
	var ignoreFileNamePrefix byte = '.'
	ignoreFileSuffix := ".partial"
	fileName := info.Name()
	if fileName[0] == ignoreFileNamePrefix {
		return false
	}
	fileExt := filepath.Ext(fileName)
	if fileExt == ignoreFileSuffix {
		return false
	}
	return slices.Contains(whiteListExtension, strings.ToLower(fileExt))
}

func ingestFile(store *database.Store, filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	info, err := os.Stat(filePath)
	if err != nil {
		return err
	}
	digests, _, err := util.DigestReader(bytes.NewReader(data))
	if err != nil {
		return err
	}
	mtype := mimetype.Detect(data)

	ext := strings.ToLower(filepath.Ext(filePath))
	format := strings.ToUpper(strings.TrimPrefix(ext, "."))

	ctx := database.GetDatabaseContext()
	saved, err := store.Save(ctx, filepath.Base(filePath), format, data, digests.SHA256)
	if err != nil {
		return err
	}

	attrs := map[string]any{
		"sha256":           digests.SHA256,
		"md5":              digests.MD5,
		"blake3":           digests.Blake3,
		"mimetype":         mtype.String(),
		"fileSize":         info.Size(),
		"fileName":         info.Name(),
		"fileLastModified": info.ModTime().UTC().Format("2006-01-02T15:04:05Z"),
	}
	for name, value := range attrs {
		raw, err := cbor.Marshal(value)
		if err != nil {
			return err
		}
		if err := store.SetAttribute(ctx, saved, name, raw); err != nil {
			return err
		}
	}
	fmt.Println("ingested", filePath, "as", saved)
	return nil
}

func scanDirectory(store *database.Store, scanRoot string) error {
	return filepath.Walk(scanRoot, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !checkShouldIncludeFile(info) {
			return nil
		}
		fmt.Println("Found: " + path)
		if err := ingestFile(store, path); err != nil {
			fmt.Println("error ingesting file:", err)
		}
		return nil
	})
}

func Run(args []string) error {
	scanRoot := config.GetConfig().Watch.Folder
	if len(args) > 0 {
		scanRoot = args[0]
	}
	if scanRoot == "" {
		return fmt.Errorf("no watch folder configured, pass one as an argument")
	}

	store, err := database.GetStore()
	if err != nil {
		return err
	}

	if err := scanDirectory(store, scanRoot); err != nil {
		return fmt.Errorf("error scanning directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating file watcher: %w", err)
	}
	defer watcher.Close()

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Write) {
					info, err := os.Stat(event.Name)
					if err != nil {
						// File may be moved away for fsnotify.Rename
						continue
					}
					if info.IsDir() || !checkShouldIncludeFile(info) {
						continue
					}
					if err := ingestFile(store, event.Name); err != nil {
						fmt.Println("error ingesting file:", err)
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				fmt.Println("error:", err)
			}
		}
	}()

	if err := watcher.Add(scanRoot); err != nil {
		return fmt.Errorf("error adding watch for directory: %w", err)
	}
	fmt.Println("watching", scanRoot)

	// Block main goroutine forever.
	<-make(chan struct{})
	return nil
}
