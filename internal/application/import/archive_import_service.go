package importapp

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Apolones/estore/internal/domain/bulk"
	"github.com/Apolones/estore/internal/domain/shared"
	"github.com/Apolones/estore/internal/domain/store"
	csvimport "github.com/Apolones/estore/internal/infrastructure/import"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config holds the import limits and defaults
type Config struct {
	// MaxUploadSize is the largest accepted upload in bytes
	MaxUploadSize int64
	// MaxExtractedSize caps the total uncompressed size of an archive
	MaxExtractedSize int64
	// DefaultEncoding is used when a request names no charset
	DefaultEncoding string
	// Delimiter separates fields
	Delimiter rune
	// LazyQuotes accepts quotes inside unquoted fields
	LazyQuotes bool
	// ScratchDir is where archives are extracted; empty means the OS temp dir
	ScratchDir string
}

// DefaultConfig returns the default import configuration
func DefaultConfig() Config {
	return Config{
		MaxUploadSize:    32 << 20,
		MaxExtractedSize: 256 << 20,
		DefaultEncoding:  csvimport.DefaultEncoding,
		Delimiter:        csvimport.DefaultDelimiter,
		LazyQuotes:       true,
	}
}

// ImportResult summarizes a successful import
type ImportResult struct {
	ID        uuid.UUID           `json:"id"`
	Encoding  string              `json:"encoding"`
	Files     []bulk.ImportedFile `json:"files"`
	TotalRows int                 `json:"total_rows"`
}

// archiveEntry is one classified CSV file extracted from an archive
type archiveEntry struct {
	name string
	kind store.EntityKind
	path string
}

// ArchiveImportService loads archives and single CSV files into the store.
//
// Files of an archive are loaded in ascending priority of their entity kind,
// each in its own ImportScope. The first failing file stops the import; files
// committed before it stay committed.
type ArchiveImportService struct {
	scope    ImportScope
	loaders  map[store.EntityKind]EntityLoader
	history  bulk.ImportHistoryRepository
	archives ArchiveStore
	metrics  ImportMetrics
	logger   *zap.Logger
	cfg      Config
}

// ServiceOption configures an ArchiveImportService
type ServiceOption func(*ArchiveImportService)

// WithLoaders replaces the loader set
func WithLoaders(loaders map[store.EntityKind]EntityLoader) ServiceOption {
	return func(s *ArchiveImportService) {
		s.loaders = loaders
	}
}

// WithArchiveStore keeps a copy of each accepted upload
func WithArchiveStore(archives ArchiveStore) ServiceOption {
	return func(s *ArchiveImportService) {
		s.archives = archives
	}
}

// WithMetrics records import outcomes
func WithMetrics(metrics ImportMetrics) ServiceOption {
	return func(s *ArchiveImportService) {
		s.metrics = metrics
	}
}

// WithLogger sets the service logger
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *ArchiveImportService) {
		s.logger = logger
	}
}

// NewArchiveImportService creates a new ArchiveImportService
func NewArchiveImportService(
	scope ImportScope,
	history bulk.ImportHistoryRepository,
	cfg Config,
	opts ...ServiceOption,
) *ArchiveImportService {
	defaults := DefaultConfig()
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = defaults.MaxUploadSize
	}
	if cfg.MaxExtractedSize <= 0 {
		cfg.MaxExtractedSize = defaults.MaxExtractedSize
	}
	if cfg.DefaultEncoding == "" {
		cfg.DefaultEncoding = defaults.DefaultEncoding
	}
	if cfg.Delimiter == 0 {
		cfg.Delimiter = defaults.Delimiter
	}

	s := &ArchiveImportService{
		scope:   scope,
		loaders: DefaultLoaders(),
		history: history,
		logger:  zap.NewNop(),
		cfg:     cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ImportArchive extracts a ZIP archive and loads every CSV entry in dependency order
func (s *ArchiveImportService) ImportArchive(ctx context.Context, fileName string, data []byte, encoding string) (*ImportResult, error) {
	if err := s.checkUpload(fileName, data, ".zip"); err != nil {
		return nil, err
	}
	encodingName, err := s.resolveEncoding(encoding)
	if err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &store.FormatError{Reason: "not a zip archive", Err: err}
	}

	history, err := s.startHistory(ctx, bulk.ImportSourceArchive, fileName, data, encodingName, "application/zip")
	if err != nil {
		return nil, err
	}

	scratch, err := os.MkdirTemp(s.cfg.ScratchDir, "unzipped-")
	if err != nil {
		return nil, s.fail(ctx, history, "", fmt.Errorf("failed to create scratch directory: %w", err))
	}
	defer func() {
		if rmErr := os.RemoveAll(scratch); rmErr != nil {
			s.logger.Warn("Failed to remove scratch directory", zap.String("dir", scratch), zap.Error(rmErr))
		}
	}()

	entries, err := s.extract(zr, scratch)
	if err != nil {
		return nil, s.fail(ctx, history, "", err)
	}
	sortByPriority(entries)

	s.logger.Info("Archive import started",
		zap.String("import_id", history.ID.String()),
		zap.String("file_name", fileName),
		zap.Int("files", len(entries)),
		zap.String("encoding", encodingName),
	)

	for _, entry := range entries {
		rows, err := s.loadFile(ctx, entry.kind, entry.path, encodingName)
		if err != nil {
			return nil, s.fail(ctx, history, entry.name, fileFailure(entry.name, entry.kind, err))
		}
		s.fileLoaded(ctx, history, entry.name, entry.kind, rows)
	}

	return s.complete(ctx, history, encodingName)
}

// ImportCSV loads one delimited file into the given entity kind
func (s *ArchiveImportService) ImportCSV(ctx context.Context, kind store.EntityKind, fileName string, data []byte, encoding string) (*ImportResult, error) {
	if !kind.IsValid() {
		return nil, &store.UnknownFileTypeError{FileName: fileName}
	}
	if err := s.checkUpload(fileName, data, ".csv"); err != nil {
		return nil, err
	}
	encodingName, err := s.resolveEncoding(encoding)
	if err != nil {
		return nil, err
	}

	history, err := s.startHistory(ctx, bulk.ImportSourceCSV, fileName, data, encodingName, "text/csv")
	if err != nil {
		return nil, err
	}

	rows, err := s.loadSource(ctx, kind, bytes.NewReader(data), encodingName)
	if err != nil {
		return nil, s.fail(ctx, history, fileName, fileFailure(fileName, kind, err))
	}
	s.fileLoaded(ctx, history, fileName, kind, rows)

	return s.complete(ctx, history, encodingName)
}

// checkUpload rejects empty, oversized and wrongly named uploads
func (s *ArchiveImportService) checkUpload(fileName string, data []byte, ext string) error {
	if len(data) == 0 {
		return &store.FormatError{Reason: "empty upload"}
	}
	if int64(len(data)) > s.cfg.MaxUploadSize {
		return &store.SizeLimitExceededError{Size: int64(len(data)), Limit: s.cfg.MaxUploadSize}
	}
	if fileName != "" && !strings.EqualFold(path.Ext(fileName), ext) {
		return &store.FormatError{Reason: fmt.Sprintf("expected a %s file, got %q", ext, fileName)}
	}
	return nil
}

func (s *ArchiveImportService) resolveEncoding(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		name = s.cfg.DefaultEncoding
	}
	_, canonical, err := csvimport.LookupEncoding(name)
	return canonical, err
}

// extract classifies every CSV entry and writes it into dir.
// An entry that matches no entity kind aborts before anything is loaded.
func (s *ArchiveImportService) extract(zr *zip.Reader, dir string) ([]archiveEntry, error) {
	var (
		entries []archiveEntry
		budget  = s.cfg.MaxExtractedSize
	)

	for i, f := range zr.File {
		if f.FileInfo().IsDir() || !isCSVEntry(f.Name) {
			continue
		}

		kind, ok := store.ClassifyFileName(f.Name)
		if !ok {
			return nil, &store.UnknownFileTypeError{FileName: f.Name}
		}

		// entries are flattened so names cannot escape the scratch directory
		target := filepath.Join(dir, fmt.Sprintf("%04d-%s", i, path.Base(f.Name)))
		written, err := extractEntry(f, target, budget)
		if err != nil {
			return nil, err
		}
		budget -= written

		entries = append(entries, archiveEntry{name: path.Base(f.Name), kind: kind, path: target})
	}

	return entries, nil
}

func extractEntry(f *zip.File, target string, budget int64) (int64, error) {
	src, err := f.Open()
	if err != nil {
		return 0, &store.FormatError{Reason: "cannot open entry " + f.Name, Err: err}
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", target, err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.LimitReader(src, budget+1))
	if err != nil {
		return written, &store.FormatError{Reason: "cannot extract entry " + f.Name, Err: err}
	}
	if written > budget {
		return written, &store.SizeLimitExceededError{Size: written, Limit: budget}
	}
	return written, nil
}

// isCSVEntry skips resource-fork folders and anything that is not a CSV file
func isCSVEntry(name string) bool {
	if strings.HasPrefix(name, "__MACOSX/") || strings.HasPrefix(path.Base(name), "._") {
		return false
	}
	return strings.EqualFold(path.Ext(name), ".csv")
}

// sortByPriority orders entries by load tier, keeping archive order within a tier
func sortByPriority(entries []archiveEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].kind.Priority() < entries[j].kind.Priority()
	})
}

func (s *ArchiveImportService) loadFile(ctx context.Context, kind store.EntityKind, filePath, encoding string) (int, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open extracted file: %w", err)
	}
	defer f.Close()

	return s.loadSource(ctx, kind, f, encoding)
}

func (s *ArchiveImportService) loadSource(ctx context.Context, kind store.EntityKind, src io.ReadSeeker, encoding string) (int, error) {
	loader, ok := s.loaders[kind]
	if !ok {
		return 0, fmt.Errorf("no loader registered for %s", kind)
	}

	parser, err := csvimport.NewRecordParser(src, encoding,
		csvimport.WithDelimiter(s.cfg.Delimiter),
		csvimport.WithLazyQuotes(s.cfg.LazyQuotes),
	)
	if err != nil {
		return 0, err
	}

	var loaded int
	err = s.scope.Execute(ctx, func(repos ImportRepositories) error {
		n, err := loader.Load(ctx, repos, parser)
		if err != nil {
			return err
		}
		loaded = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return loaded, nil
}

func (s *ArchiveImportService) startHistory(
	ctx context.Context,
	source bulk.ImportSource,
	fileName string,
	data []byte,
	encoding string,
	contentType string,
) (*bulk.ImportHistory, error) {
	if fileName == "" {
		fileName = "upload"
	}
	history, err := bulk.NewImportHistory(source, fileName, int64(len(data)), encoding)
	if err != nil {
		return nil, err
	}

	if s.archives != nil {
		key := fmt.Sprintf("imports/%s/%s", history.ID, path.Base(fileName))
		if err := s.archives.Save(ctx, key, data, contentType); err != nil {
			s.logger.Warn("Failed to archive upload", zap.String("key", key), zap.Error(err))
		} else {
			history.StorageKey = key
		}
	}

	if err := s.history.Save(ctx, history); err != nil {
		return nil, fmt.Errorf("failed to save import history: %w", err)
	}
	return history, nil
}

func (s *ArchiveImportService) fileLoaded(ctx context.Context, history *bulk.ImportHistory, name string, kind store.EntityKind, rows int) {
	_ = history.RecordFile(name, kind.String(), rows)
	if s.metrics != nil {
		s.metrics.RecordFileLoaded(ctx, kind, rows)
	}
	s.logger.Info("File imported",
		zap.String("import_id", history.ID.String()),
		zap.String("file", name),
		zap.String("kind", kind.String()),
		zap.Int("rows", rows),
	)
}

func (s *ArchiveImportService) complete(ctx context.Context, history *bulk.ImportHistory, encoding string) (*ImportResult, error) {
	if err := history.Complete(); err != nil {
		return nil, err
	}
	s.saveHistory(ctx, history)
	if s.metrics != nil {
		s.metrics.RecordImportFinished(ctx, string(history.Source), true)
	}

	s.logger.Info("Import completed",
		zap.String("import_id", history.ID.String()),
		zap.Int("files", history.FilesLoaded),
		zap.Int("rows", history.RowsLoaded),
		zap.Duration("duration", history.Duration()),
	)

	return &ImportResult{
		ID:        history.ID,
		Encoding:  encoding,
		Files:     history.Files,
		TotalRows: history.RowsLoaded,
	}, nil
}

// fileFailure attributes a data error to the file being loaded. Faults of the
// store or the runtime stay uncoded so they surface as server errors.
func fileFailure(name string, kind store.EntityKind, err error) error {
	var coded shared.CodedError
	if errors.As(err, &coded) {
		return &store.FileImportError{File: name, Kind: kind, Err: err}
	}
	return fmt.Errorf("failed to load %s (%s): %w", name, kind, err)
}

// fail records the failure and returns cause unchanged
func (s *ArchiveImportService) fail(ctx context.Context, history *bulk.ImportHistory, fileName string, cause error) error {
	_ = history.Fail(fileName, cause)
	s.saveHistory(ctx, history)
	if s.metrics != nil {
		s.metrics.RecordImportFinished(ctx, string(history.Source), false)
	}

	fields := []zap.Field{
		zap.String("import_id", history.ID.String()),
		zap.String("failed_file", fileName),
		zap.Int("files_committed", history.FilesLoaded),
		zap.Error(cause),
	}
	if errors.Is(cause, context.Canceled) {
		s.logger.Warn("Import cancelled", fields...)
	} else {
		s.logger.Warn("Import failed", fields...)
	}
	return cause
}

// saveHistory persists the terminal state; the import outcome does not depend on it
func (s *ArchiveImportService) saveHistory(ctx context.Context, history *bulk.ImportHistory) {
	if err := s.history.Save(context.WithoutCancel(ctx), history); err != nil {
		s.logger.Error("Failed to save import history",
			zap.String("import_id", history.ID.String()),
			zap.Error(err),
		)
	}
}
