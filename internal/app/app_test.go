package app

import (
	"context"
	"encoding/base64"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/notAbhay321/monkeytype-streak-notifier/internal/config"
	"github.com/notAbhay321/monkeytype-streak-notifier/internal/domain"
	"github.com/notAbhay321/monkeytype-streak-notifier/internal/store"
)

func TestOpenDirectory(t *testing.T) {
	key := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("x", 32)))
	cases := []struct {
		name string
		cfg  config.Config
		want any
	}{
		{"json", config.Config{StoreDriver: config.DriverJSON, UsersFile: "users.json"}, &store.JSONDirectory{}},
		{"sqlite", config.Config{StoreDriver: config.DriverSQLite, DBPath: "users.db"}, &store.SQLiteRepo{}},
		{"sealed json", config.Config{StoreDriver: config.DriverJSON, UsersFile: "users.json", CredentialKey: key}, &store.JSONDirectory{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tmp := t.TempDir()
			tc.cfg.UsersFile = filepath.Join(tmp, tc.cfg.UsersFile)
			tc.cfg.DBPath = filepath.Join(tmp, tc.cfg.DBPath)

			dir, err := openDirectory(context.Background(), tc.cfg, zap.NewNop())
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer dir.Close()

			switch tc.want.(type) {
			case *store.JSONDirectory:
				if _, ok := dir.(*store.JSONDirectory); !ok {
					t.Fatalf("want JSON directory, got %T", dir)
				}
			case *store.SQLiteRepo:
				if _, ok := dir.(*store.SQLiteRepo); !ok {
					t.Fatalf("want SQLite repo, got %T", dir)
				}
			}

			u := &domain.User{Identity: "1", Credential: "k", OffsetHours: 2, ChatID: 1, RegisteredAt: time.Now().UTC()}
			if err := dir.Put(context.Background(), u); err != nil {
				t.Fatalf("put: %v", err)
			}
			got, err := dir.Get(context.Background(), "1")
			if err != nil || got.Credential != "k" {
				t.Fatalf("get: %+v, %v", got, err)
			}
		})
	}
}

func TestOpenDirectory_BadKey(t *testing.T) {
	cfg := config.Config{StoreDriver: config.DriverJSON, UsersFile: filepath.Join(t.TempDir(), "u.json"), CredentialKey: "short"}
	if _, err := openDirectory(context.Background(), cfg, zap.NewNop()); err == nil {
		t.Fatal("want error for bad CREDENTIAL_KEY")
	}
}
