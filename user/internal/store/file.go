package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	"github.com/Alturino/storefront/internal/log"
)

type tokenFile struct {
	Token string `json:"token"`
}

// FileTokenStore keeps the token in a JSON file readable only by the current user.
type FileTokenStore struct {
	path string
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// DefaultTokenPath is <user config dir>/storefront/token.json.
func DefaultTokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed finding user config dir with error=%w", err)
	}
	return filepath.Join(dir, "storefront", "token.json"), nil
}

func (s *FileTokenStore) Load(c context.Context) (string, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "FileTokenStore Load").
		Str("path", s.path).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "reading token file").Logger()
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug().Msg("token file not found")
		return "", commonErrors.ErrNotFound
	}
	if err != nil {
		err = fmt.Errorf("failed reading token file with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}

	logger = logger.With().Str(log.KeyProcess, "decoding token file").Logger()
	file := tokenFile{}
	if err := json.Unmarshal(raw, &file); err != nil {
		err = fmt.Errorf("failed decoding token file with error=%w", errors.Join(commonErrors.ErrParse, err))
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}
	if file.Token == "" {
		return "", commonErrors.ErrNotFound
	}
	logger.Debug().Msg("loaded token")
	return file.Token, nil
}

func (s *FileTokenStore) Save(c context.Context, token string) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "FileTokenStore Save").
		Str("path", s.path).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "creating token dir").Logger()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		err = fmt.Errorf("failed creating token dir with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	logger = logger.With().Str(log.KeyProcess, "writing token file").Logger()
	raw, err := json.Marshal(tokenFile{Token: token})
	if err != nil {
		err = fmt.Errorf("failed encoding token file with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		err = fmt.Errorf("failed writing token file with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		err = fmt.Errorf("failed replacing token file with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Debug().Msg("saved token")
	return nil
}

func (s *FileTokenStore) Delete(c context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		err = fmt.Errorf("failed removing token file with error=%w", err)
		zerolog.Ctx(c).Error().Err(err).Str(log.KeyTag, "FileTokenStore Delete").Msg(err.Error())
		return err
	}
	return nil
}
