package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"memedex/internal/catalog"
	"memedex/internal/fileutil"
	"memedex/internal/imaging"
	"memedex/internal/logging"
	"memedex/internal/services"
	"memedex/internal/task"
	"memedex/internal/textutil"
)

// Captioner produces text for a normalized JPEG.
type Captioner interface {
	Caption(ctx context.Context, jpeg []byte) (string, error)
	SuggestFilename(ctx context.Context, jpeg []byte) (string, error)
}

// Embedder produces a fixed-length vector for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Index persists and looks up catalog entries.
type Index interface {
	ExistsByHash(ctx context.Context, hash string) (bool, error)
	Upsert(ctx context.Context, entry *catalog.Entry) (int64, error)
}

// Executor runs the ingest steps for one task at a time. Safe for concurrent
// use by multiple workers.
type Executor struct {
	captioner  Captioner
	embedder   Embedder
	index      Index
	dataDir    string
	stagingDir string
	logger     *slog.Logger
}

// Options configures an Executor.
type Options struct {
	Captioner  Captioner
	Embedder   Embedder
	Index      Index
	DataDir    string
	StagingDir string
	Logger     *slog.Logger
}

// NewExecutor constructs the pipeline executor.
func NewExecutor(opts Options) *Executor {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Executor{
		captioner:  opts.Captioner,
		embedder:   opts.Embedder,
		index:      opts.Index,
		dataDir:    opts.DataDir,
		stagingDir: opts.StagingDir,
		logger:     logger,
	}
}

// Run executes the full step sequence for a task. On success the task's
// Caption and FinalPath are populated and the original file has been replaced
// by the normalized JPEG under its descriptive name. On failure the original
// file is left where it was.
func (e *Executor) Run(ctx context.Context, t *task.Task) error {
	ctx = services.WithTaskID(ctx, t.ID)
	ctx = services.WithPath(ctx, t.SourcePath)
	logger := logging.WithContext(ctx, e.logger)

	// Step 1: validate.
	img, format, err := imaging.Decode(t.SourcePath)
	if err != nil {
		return services.Wrap(services.ErrValidation, "validate", "decode", "file is not a decodable image", err)
	}
	logger.Debug("image validated", logging.String("format", format))

	if t.ContentHash == "" {
		hash, err := fileutil.HashFile(t.SourcePath)
		if err != nil {
			return services.Wrap(services.ErrValidation, "validate", "hash", "cannot hash source file", err)
		}
		t.ContentHash = hash
	}

	// Step 2: normalize to JPEG.
	normalized, err := imaging.Normalize(img)
	if err != nil {
		return services.Wrap(services.ErrValidation, "normalize", "encode", "cannot normalize image", err)
	}

	// Step 3: caption.
	caption, err := e.captioner.Caption(ctx, normalized)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "caption", "caption", "caption request failed", err)
	}
	t.Caption = caption

	// Step 4: derive a collision-safe filename. The filename suggestion is a
	// separate model query; when it fails the caption itself is a fine source.
	suggestion, err := e.captioner.SuggestFilename(ctx, normalized)
	if err != nil || suggestion == "" {
		if err != nil {
			logger.Warn("filename suggestion failed, deriving from caption", logging.Error(err))
		}
		suggestion = caption
	}
	// The name is claimed with an exclusive placeholder so two workers deriving
	// the same slug cannot promote onto the same path.
	finalPath, err := fileutil.ReservePath(e.dataDir, textutil.Slug(suggestion), ".jpg")
	if err != nil {
		return services.Wrap(services.ErrTransient, "derive_filename", "reserve_path", "cannot reserve output path", err)
	}
	promoted := false
	defer func() {
		if !promoted {
			_ = os.Remove(finalPath)
		}
	}()

	// Step 5: embed the caption text. Text keeps the stored vectors in the
	// same modality as search queries.
	vector, err := e.embedder.Embed(ctx, caption)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "embed", "embed", "embedding request failed", err)
	}

	// Step 6: write the index entry. The normalized JPEG is staged first so
	// promotion after a successful write is a pure rename.
	stagingPath := filepath.Join(e.stagingDir, uuid.NewString()+".jpg")
	if err := os.WriteFile(stagingPath, normalized, 0o644); err != nil {
		return services.Wrap(services.ErrTransient, "index", "stage", "cannot stage normalized image", err)
	}
	// Both hashes go into the entry: the source hash dedupes a re-dropped
	// original, the normalized hash makes the promoted output itself register
	// as indexed when the watcher reports it.
	entry := &catalog.Entry{
		Filename:       filepath.Base(finalPath),
		Caption:        caption,
		ContentHash:    t.ContentHash,
		NormalizedHash: fileutil.HashBytes(normalized),
		Embedding:      vector,
	}
	if _, err := e.index.Upsert(ctx, entry); err != nil {
		_ = os.Remove(stagingPath)
		return services.Wrap(services.ErrExternalTool, "index", "upsert", "index write failed", err)
	}

	// Step 7: promote the normalized file and retire the original. Only runs
	// after the index write so a renamed file always has a catalog entry.
	if err := fileutil.MoveFile(stagingPath, finalPath); err != nil {
		_ = os.Remove(stagingPath)
		return services.Wrap(services.ErrTransient, "rename", "promote", "cannot move file into data directory", err)
	}
	promoted = true
	if t.SourcePath != finalPath {
		if err := os.Remove(t.SourcePath); err != nil {
			logger.Warn("cannot remove original file", logging.Error(err))
		}
	}

	t.FinalPath = finalPath
	logger.Info("file ingested",
		logging.String("final_path", finalPath),
		logging.String("caption", caption))
	return nil
}
