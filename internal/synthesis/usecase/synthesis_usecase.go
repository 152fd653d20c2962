package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	historydomain "voiceclone-backend/internal/history/domain"
	historyusecase "voiceclone-backend/internal/history/usecase"
	"voiceclone-backend/internal/synthesis/dto"
	"voiceclone-backend/pkg/tts"
)

// Synthesizer turns text plus a reference sample into audio.
type Synthesizer interface {
	GenerateSpeech(ctx context.Context, req tts.Request) ([]byte, error)
}

// ArtifactStore is the slice of the store synthesis writes through.
type ArtifactStore interface {
	SaveVoiceSample(data []byte, ext string) (string, error)
	SaveOutput(data []byte) (string, error)
	Abs(rel string) (string, error)
	Delete(rel string) error
}

type SynthesisUsecase interface {
	// Synthesize runs one voice-cloning job end to end and returns the
	// appended history record together with the generated audio.
	Synthesize(ctx context.Context, owner string, req *dto.SynthesizeRequest) (*historydomain.HistoryRecord, []byte, error)
}

type synthesisUsecase struct {
	synthesizer Synthesizer
	store       ArtifactStore
	history     historyusecase.HistoryUsecase
	log         *zap.SugaredLogger
}

func NewSynthesisUsecase(synthesizer Synthesizer, store ArtifactStore, history historyusecase.HistoryUsecase, log *zap.SugaredLogger) SynthesisUsecase {
	return &synthesisUsecase{
		synthesizer: synthesizer,
		store:       store,
		history:     history,
		log:         log,
	}
}

func (u *synthesisUsecase) Synthesize(ctx context.Context, owner string, req *dto.SynthesizeRequest) (*historydomain.HistoryRecord, []byte, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, nil, tts.ErrTextEmpty
	}
	if !historydomain.IsSupportedLanguage(req.Language) {
		return nil, nil, historydomain.ErrInvalidLanguage
	}

	voicePath, err := u.store.SaveVoiceSample(req.VoiceData, req.VoiceExt)
	if err != nil {
		return nil, nil, err
	}
	absVoice, err := u.store.Abs(voicePath)
	if err != nil {
		return nil, nil, err
	}

	audio, err := u.synthesizer.GenerateSpeech(ctx, tts.Request{
		Text:           text,
		SpeakerRefPath: absVoice,
		Language:       req.Language,
	})
	if err != nil {
		// No record gets written for a failed job; drop the sample so the
		// sweep does not have to.
		if delErr := u.store.Delete(voicePath); delErr != nil {
			u.log.Warnw("failed to remove voice sample after synthesis error", "path", voicePath, "error", delErr)
		}
		return nil, nil, err
	}

	outputPath, err := u.store.SaveOutput(audio)
	if err != nil {
		if delErr := u.store.Delete(voicePath); delErr != nil {
			u.log.Warnw("failed to remove voice sample after output write error", "path", voicePath, "error", delErr)
		}
		return nil, nil, err
	}

	record, err := u.history.Append(owner, text, req.Language, voicePath, outputPath)
	if err != nil {
		return nil, nil, err
	}

	u.log.Infow("synthesis completed", "owner", owner, "record", record.ID, "language", req.Language, "bytes", len(audio))
	return record, audio, nil
}
