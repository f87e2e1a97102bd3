// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"context"

	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	enginemock "github.com/KirkDiggler/rpg-sheet/internal/engine/mock"
	"github.com/KirkDiggler/rpg-sheet/internal/engine/stats"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/blob"
	blobmock "github.com/KirkDiggler/rpg-sheet/internal/repositories/blob/mock"
	"github.com/KirkDiggler/rpg-sheet/internal/services/character"
	charactermock "github.com/KirkDiggler/rpg-sheet/internal/services/character/mock"
)

// ExpectSheetDerivation lets the engine mock derive sheets with the real
// calculator for any number of calls
func ExpectSheetDerivation(mockEngine *enginemock.MockEngine) *gomock.Call {
	return mockEngine.EXPECT().
		CalculateSheet(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *engine.CalculateSheetInput) (*engine.CalculateSheetOutput, error) {
			return &engine.CalculateSheetOutput{Sheet: stats.Derive(input.Character)}, nil
		}).
		AnyTimes()
}

// ExpectSave sets up one save that behaves like the service: the stored
// record gets id and stamp
func ExpectSave(mockService *charactermock.MockService, id string, stamp int64) *gomock.Call {
	return mockService.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *character.SaveInput) (*character.SaveOutput, error) {
			saved := input.Character.Clone()
			saved.ID = id
			saved.LastUpdated = stamp
			return &character.SaveOutput{Character: saved}, nil
		})
}

// ExpectUpload sets up one upload of data under key
func ExpectUpload(
	ctx context.Context, mockUploader *blobmock.MockUploader,
	key string, data []byte, contentType string, url string, err error,
) *gomock.Call {
	var out *blob.UploadOutput
	if err == nil {
		out = &blob.UploadOutput{URL: url}
	}
	return mockUploader.EXPECT().
		Upload(ctx, blob.UploadInput{
			Key:         key,
			Data:        data,
			ContentType: contentType,
		}).
		Return(out, err)
}
