package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/notAbhay321/monkeytype-streak-notifier/internal/domain"
)

// JSONDirectory keeps all users in one JSON object keyed by identity.
// Every read loads the whole file and every mutation rewrites it.
type JSONDirectory struct {
	path   string
	cipher CredentialCipher
	log    *zap.Logger
	mu     sync.Mutex
	folded map[string]int // identity -> legacy offset already reported
}

// JSONOption configures a JSONDirectory.
type JSONOption func(*JSONDirectory)

// WithLogger sets the logger used for load-time warnings.
func WithLogger(log *zap.Logger) JSONOption {
	return func(d *JSONDirectory) { d.log = log }
}

// OpenJSON returns a directory backed by the file at path. A missing file is
// an empty directory; it is created on the first write. cipher may be nil.
func OpenJSON(path string, cipher CredentialCipher, opts ...JSONOption) *JSONDirectory {
	d := &JSONDirectory{
		path:   path,
		cipher: cipher,
		log:    zap.NewNop(),
		folded: map[string]int{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *JSONDirectory) Close() error { return nil }

func (d *JSONDirectory) Get(_ context.Context, identity string) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.load()
	if err != nil {
		return nil, err
	}
	u, ok := users[identity]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (d *JSONDirectory) Put(_ context.Context, u *domain.User) error {
	if err := validate(u); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.load()
	if err != nil {
		return err
	}
	users[u.Identity] = *u
	return d.save(users)
}

func (d *JSONDirectory) Delete(_ context.Context, identity string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.load()
	if err != nil {
		return err
	}
	if _, ok := users[identity]; !ok {
		return ErrNotFound
	}
	delete(users, identity)
	return d.save(users)
}

func (d *JSONDirectory) All(_ context.Context) ([]domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.load()
	if err != nil {
		return nil, err
	}
	res := make([]domain.User, 0, len(users))
	for _, u := range users {
		res = append(res, u)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Identity < res[j].Identity })
	return res, nil
}

func (d *JSONDirectory) SaveAll(_ context.Context, users []domain.User) error {
	m := make(map[string]domain.User, len(users))
	for i := range users {
		if err := validate(&users[i]); err != nil {
			return err
		}
		m[users[i].Identity] = users[i]
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.save(m)
}

func (d *JSONDirectory) MarkReminded(_ context.Context, dates map[string]domain.Date) error {
	if len(dates) == 0 {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.load()
	if err != nil {
		return err
	}
	for id, day := range dates {
		day := day
		u, ok := users[id]
		if !ok {
			continue
		}
		u.LastReminderDate = &day
		users[id] = u
	}
	return d.save(users)
}

func (d *JSONDirectory) load() (map[string]domain.User, error) {
	b, err := os.ReadFile(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]domain.User{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", d.path, err)
	}
	users := map[string]domain.User{}
	if len(bytes.TrimSpace(b)) == 0 {
		return users, nil
	}
	if err := json.Unmarshal(b, &users); err != nil {
		return nil, fmt.Errorf("decode %s: %w", d.path, err)
	}
	for id, u := range users {
		u.Identity = id
		if u.Credential, err = openCredential(d.cipher, u.Credential); err != nil {
			return nil, fmt.Errorf("user %s: %w", id, err)
		}
		// Older files may hold any integer offset; fold it into range so
		// the record keeps its reminder hour and passes validation on save.
		if u.OffsetHours < domain.MinOffset || u.OffsetHours > domain.MaxOffset {
			legacy := u.OffsetHours
			u.OffsetHours = domain.NormalizeOffset(legacy)
			if d.folded[id] != legacy {
				d.folded[id] = legacy
				d.log.Warn("out-of-range offset normalized",
					zap.String("identity", id),
					zap.Int("stored", legacy),
					zap.Int("offset", u.OffsetHours),
				)
			}
		}
		users[id] = u
	}
	return users, nil
}

// save writes users to a temp file next to the target and renames it over,
// so readers never observe a partially written file.
func (d *JSONDirectory) save(users map[string]domain.User) error {
	out := make(map[string]domain.User, len(users))
	for id, u := range users {
		sealed, err := sealCredential(d.cipher, u.Credential)
		if err != nil {
			return err
		}
		u.Credential = sealed
		out[id] = u
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}

	dir := filepath.Dir(d.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".users-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(b, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write users: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), d.path)
}
