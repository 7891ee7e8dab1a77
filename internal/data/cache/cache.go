// Package cache persists derived data between runs: normalized observations
// per source file, and the calibration produced by the calibrate pass.
package cache

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/pzhong/go-aqi-monitor/internal/core/model"
	"github.com/pzhong/go-aqi-monitor/internal/util"
)

type CacheMissReason int

const (
	MissReasonNone CacheMissReason = iota
	MissReasonError
	MissReasonInode
	MissReasonSize
	MissReasonModTime
	MissReasonNotFound
)

// FileRows is the cached parse result for one source export.
type FileRows struct {
	FilePath     string              `json:"filePath"`
	Rows         []model.Observation `json:"rows"`
	Dropped      int                 `json:"dropped"`
	LastModified int64               `json:"lastModified"`
	FileSize     int64               `json:"fileSize"`
	Inode        uint64              `json:"inode"`
}

type CacheResult struct {
	Data       *FileRows
	Found      bool
	MissReason CacheMissReason
}

type Cache interface {
	Get(filePath string) CacheResult
	Set(filePath string, rows []model.Observation, dropped int) error
	Clear() error
	Preload() error
}

// FileCache stores one JSON document per source file under the cache
// directory, with an in-memory layer in front. Entries are validated
// against the source file's inode, size and modification time before use.
type FileCache struct {
	baseDir     string
	mu          sync.RWMutex
	memoryCache map[string]*FileRows
}

func NewFileCache(baseDir string) (*FileCache, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &FileCache{
		baseDir:     baseDir,
		memoryCache: make(map[string]*FileRows),
	}, nil
}

// cacheKey derives the cache entry name from a source file path.
// e.g. "/data/Beijing_2014_HourlyPM25.csv" -> "Beijing_2014_HourlyPM25"
func cacheKey(filePath string) string {
	filename := filepath.Base(filePath)
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

func (c *FileCache) cachePath(filePath string) string {
	return filepath.Join(c.baseDir, cacheKey(filePath)+".json")
}

func (c *FileCache) Get(filePath string) CacheResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(filePath)
	if memData, exists := c.memoryCache[key]; exists {
		if ret := c.validate(memData); ret.cached {
			return CacheResult{Data: memData, Found: true, MissReason: MissReasonNone}
		}
		delete(c.memoryCache, key)
	}

	return c.getFromFile(filePath)
}

func (c *FileCache) getFromFile(filePath string) CacheResult {
	raw, err := os.ReadFile(c.cachePath(filePath))
	if err != nil {
		return CacheResult{Found: false, MissReason: MissReasonNotFound}
	}

	var data FileRows
	if err := sonic.Unmarshal(raw, &data); err != nil {
		return CacheResult{Found: false, MissReason: MissReasonError}
	}

	if ret := c.validate(&data); !ret.cached {
		return CacheResult{Found: false, MissReason: ret.reason}
	}

	c.memoryCache[cacheKey(filePath)] = &data

	return CacheResult{Data: &data, Found: true, MissReason: MissReasonNone}
}

type validateResult struct {
	cached bool
	reason CacheMissReason
}

func (c *FileCache) validate(data *FileRows) validateResult {
	currentInfo, err := util.GetFileInfo(data.FilePath)
	if err != nil {
		util.LogDebugf("Cache validation failed for %s: unable to get file info: %v", data.FilePath, err)
		return validateResult{cached: false, reason: MissReasonError}
	}

	if currentInfo.Inode != data.Inode {
		util.LogDebugf("Cache invalidated for %s: inode changed (cached: %d, current: %d)",
			data.FilePath, data.Inode, currentInfo.Inode)
		return validateResult{cached: false, reason: MissReasonInode}
	}
	if currentInfo.Size != data.FileSize {
		util.LogDebugf("Cache invalidated for %s: size changed (cached: %d, current: %d)",
			data.FilePath, data.FileSize, currentInfo.Size)
		return validateResult{cached: false, reason: MissReasonSize}
	}
	if currentInfo.ModTime != data.LastModified {
		util.LogDebugf("Cache invalidated for %s: mtime changed (cached: %d, current: %d)",
			data.FilePath, data.LastModified, currentInfo.ModTime)
		return validateResult{cached: false, reason: MissReasonModTime}
	}

	return validateResult{cached: true, reason: MissReasonNone}
}

func (c *FileCache) Set(filePath string, rows []model.Observation, dropped int) error {
	info, err := util.GetFileInfo(filePath)
	if err != nil {
		return err
	}

	data := &FileRows{
		FilePath:     filePath,
		Rows:         rows,
		Dropped:      dropped,
		LastModified: info.ModTime,
		FileSize:     info.Size,
		Inode:        info.Inode,
	}

	raw, err := sonic.Marshal(data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.cachePath(filePath), raw, 0644); err != nil {
		return err
	}

	c.mu.Lock()
	c.memoryCache[cacheKey(filePath)] = data
	c.mu.Unlock()

	return nil
}

// Clear removes every cache entry, on disk and in memory.
func (c *FileCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			if err := os.Remove(filepath.Join(c.baseDir, entry.Name())); err != nil {
				return err
			}
		}
	}

	c.memoryCache = make(map[string]*FileRows)
	return nil
}

// Preload loads every on-disk entry into the memory layer so the parse
// phase can consult the cache without touching disk per file.
func (c *FileCache) Preload() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" || entry.Name() == CalibrationFileName {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(c.baseDir, entry.Name()))
		if err != nil {
			continue
		}

		var data FileRows
		if err := sonic.Unmarshal(raw, &data); err != nil {
			continue
		}

		key := strings.TrimSuffix(entry.Name(), ".json")
		c.memoryCache[key] = &data
		loaded++
	}

	util.LogDebugf("Preloaded %d cache entries", loaded)
	return nil
}
