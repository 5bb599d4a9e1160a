package ttssvc

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	htgotts "github.com/hegedustibor/htgo-tts"
	"github.com/hegedustibor/htgo-tts/voices"
	"github.com/pkg/errors"

	"github.com/zuritech/elimu/core"
	"github.com/zuritech/elimu/core/lesson"
)

const audioURLPrefix = "/media/audio/"

// Service synthesizes lesson audio with Google Translate TTS. Files are
// cached on disk keyed by a hash of the text so repeated lessons reuse them.
type Service struct {
	audioDir string
	logger   core.Logger
}

var _ lesson.SpeechSynthesizer = (*Service)(nil)

func NewService(conf *core.Config, logger core.Logger) (*Service, error) {
	dir := filepath.Join(conf.Media.Root, "audio")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating audio directory")
	}
	return &Service{audioDir: dir, logger: logger}, nil
}

// Synthesize returns the served URL of an mp3 for the text, generating it
// only when not already cached.
func (svc *Service) Synthesize(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("nothing to synthesize")
	}

	name := speechFilename(text)
	if _, err := os.Stat(filepath.Join(svc.audioDir, name+".mp3")); err == nil {
		return audioURLPrefix + name + ".mp3", nil
	}

	speech := htgotts.Speech{Folder: svc.audioDir, Language: voices.English}
	if _, err := speech.CreateSpeechFile(text, name); err != nil {
		return "", errors.Wrap(err, "synthesizing speech")
	}
	return audioURLPrefix + name + ".mp3", nil
}

// PruneOlderThan removes cached audio files older than the retention period.
// It is meant to run on a schedule.
func (svc *Service) PruneOlderThan(retention time.Duration) {
	cutoff := time.Now().Add(-retention)

	entries, err := os.ReadDir(svc.audioDir)
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("pruning audio cache: %v", err))
		return
	}

	var pruned int
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".mp3" {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err = os.Remove(filepath.Join(svc.audioDir, entry.Name())); err != nil {
			svc.logger.Warn(fmt.Sprintf("pruning audio cache: removing %s: %v", entry.Name(), err))
			continue
		}
		pruned++
	}
	if pruned > 0 {
		svc.logger.Info(fmt.Sprintf("pruned %d cached audio file(s)", pruned))
	}
}

func speechFilename(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "speech_" + hex.EncodeToString(sum[:8])
}
