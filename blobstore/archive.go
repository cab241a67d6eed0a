package blobstore

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/time/rate"

	"github.com/hupe1980/vertigo/shard"
)

// Archive transfers complete shard sets between a local directory and a
// backing store. base names the set ("twitter" or "graphs/twitter"); dir
// is the local side of the transfer.
type Archive interface {
	// Fetch downloads the shard set named base into dir.
	Fetch(ctx context.Context, base, dir string) error

	// Push uploads the shard set named base from dir.
	Push(ctx context.Context, dir, base string) error
}

// Options configures an archive.
type Options struct {
	// UploadRate caps upload throughput in bytes per second. Zero or
	// negative disables throttling. Downloads are never throttled.
	UploadRate int64

	// Logger receives structured transfer logs. If nil, logging is disabled.
	Logger *slog.Logger
}

// WithUploadRate caps upload throughput in bytes per second.
func WithUploadRate(bytesPerSecond int64) func(*Options) {
	return func(o *Options) {
		o.UploadRate = bytesPerSecond
	}
}

// WithLogger configures structured logging. Pass nil to disable.
func WithLogger(l *slog.Logger) func(*Options) {
	return func(o *Options) {
		o.Logger = l
	}
}

// StoreArchive is an Archive over any ObjectStore.
type StoreArchive struct {
	store   ObjectStore
	limiter *rate.Limiter
	logger  *slog.Logger
}

// New creates an archive backed by store.
func New(store ObjectStore, optFns ...func(*Options)) *StoreArchive {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	a := &StoreArchive{store: store, logger: logger}
	if opts.UploadRate > 0 {
		burst := int(opts.UploadRate)
		if burst < throttleChunk {
			burst = throttleChunk
		}
		a.limiter = rate.NewLimiter(rate.Limit(opts.UploadRate), burst)
	}
	return a
}

// Fetch downloads the manifest first, then every file it names.
func (a *StoreArchive) Fetch(ctx context.Context, base, dir string) error {
	localBase := filepath.Join(dir, filepath.FromSlash(base))
	if err := os.MkdirAll(filepath.Dir(localBase), 0o755); err != nil {
		return err
	}

	if err := a.download(ctx, shard.MetaPath(base), shard.MetaPath(localBase)); err != nil {
		return err
	}
	man, err := shard.ReadManifest(shard.MetaPath(localBase))
	if err != nil {
		return err
	}

	keys, locals := setDataFiles(base, localBase, int(man.NumShards))
	for i, key := range keys {
		if err := a.download(ctx, key, locals[i]); err != nil {
			return err
		}
	}
	a.logger.Info("shard set fetched",
		slog.String("base", base),
		slog.String("dir", dir),
		slog.Int("files", len(keys)+1),
	)
	return nil
}

// Push uploads the data files first and the manifest last, so a reader
// never sees a manifest whose files are still missing.
func (a *StoreArchive) Push(ctx context.Context, dir, base string) error {
	localBase := filepath.Join(dir, filepath.FromSlash(base))
	man, err := shard.ReadManifest(shard.MetaPath(localBase))
	if err != nil {
		return err
	}

	keys, locals := setDataFiles(base, localBase, int(man.NumShards))
	for i, key := range keys {
		if err := a.upload(ctx, locals[i], key); err != nil {
			return err
		}
	}
	if err := a.upload(ctx, shard.MetaPath(localBase), shard.MetaPath(base)); err != nil {
		return err
	}
	a.logger.Info("shard set pushed",
		slog.String("base", base),
		slog.String("dir", dir),
		slog.Int("files", len(keys)+1),
	)
	return nil
}

func (a *StoreArchive) download(ctx context.Context, key, path string) error {
	r, err := a.store.Get(ctx, key)
	if err != nil {
		return err
	}
	defer r.Close()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (a *StoreArchive) upload(ctx context.Context, path, key string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return err
	}

	var r io.Reader = f
	if a.limiter != nil {
		r = &throttledReader{ctx: ctx, r: f, limiter: a.limiter}
	}
	return a.store.Put(ctx, key, r, st.Size())
}

// setDataFiles pairs the remote keys and local paths of a set's data
// files. The manifest is handled separately by the callers.
func setDataFiles(base, localBase string, numShards int) (keys, locals []string) {
	keys = append(keys, shard.DegreePath(base))
	locals = append(locals, shard.DegreePath(localBase))
	for p := 0; p < numShards; p++ {
		keys = append(keys, shard.EdgePath(base, p), shard.IndexPath(base, p))
		locals = append(locals, shard.EdgePath(localBase, p), shard.IndexPath(localBase, p))
	}
	return keys, locals
}

const throttleChunk = 256 << 10

// throttledReader paces reads against the limiter so the wrapped upload
// never exceeds the configured rate.
type throttledReader struct {
	ctx     context.Context
	r       io.Reader
	limiter *rate.Limiter
}

func (t *throttledReader) Read(p []byte) (int, error) {
	if len(p) > throttleChunk {
		p = p[:throttleChunk]
	}
	n, err := t.r.Read(p)
	if n > 0 {
		if werr := t.limiter.WaitN(t.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}
