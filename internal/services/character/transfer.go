package character

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// ExportVersion is the version written into export documents
const ExportVersion = 1

// ExportDocument is the transferable backup format
type ExportDocument struct {
	Version    int                `json:"version"`
	ExportedAt string             `json:"exportedAt"`
	Characters []*dnd5e.Character `json:"characters"`
	Settings   map[string]any     `json:"settings"`
}

// importDocument defers decoding of characters so their shape can be
// checked before anything is written.
type importDocument struct {
	Version    int             `json:"version"`
	Characters json.RawMessage `json:"characters"`
	Settings   map[string]any  `json:"settings"`
}

// Export serializes the active store's records with the given settings
func (p *Persistence) Export(ctx context.Context, input *ExportInput) (*ExportOutput, error) {
	chars, err := p.activeStore(ctx).List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list characters for export")
	}

	settings := map[string]any{}
	if input != nil && input.Settings != nil {
		settings = input.Settings
	}

	doc := &ExportDocument{
		Version:    ExportVersion,
		ExportedAt: p.clock.Now().UTC().Format(time.RFC3339),
		Characters: chars,
		Settings:   settings,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode export")
	}

	slog.InfoContext(ctx, "exported characters",
		"count", len(chars))

	return &ExportOutput{Document: doc, Data: data}, nil
}

// Import replaces the active store's contents with the document's
// characters. The whole document is validated and healed before the store
// is touched.
func (p *Persistence) Import(ctx context.Context, input *ImportInput) (*ImportOutput, error) {
	if input == nil || len(bytes.TrimSpace(input.Data)) == 0 {
		return nil, errors.InvalidArgument("import document is empty")
	}

	chars, settings, err := p.parseImport(input.Data)
	if err != nil {
		return nil, err
	}

	if err := p.activeStore(ctx).ReplaceAll(ctx, chars); err != nil {
		return nil, errors.Wrap(err, "failed to replace characters")
	}

	slog.InfoContext(ctx, "imported characters",
		"count", len(chars))

	return &ImportOutput{Imported: len(chars), Settings: settings}, nil
}

func (p *Persistence) parseImport(data []byte) ([]*dnd5e.Character, map[string]any, error) {
	var doc importDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "import document is not a JSON object")
	}

	trimmed := bytes.TrimSpace(doc.Characters)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, nil, errors.InvalidArgument("import document must contain a characters array")
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "characters is not a valid array")
	}

	chars := make([]*dnd5e.Character, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	vb := errors.NewValidationBuilder()
	for i, entry := range entries {
		char, err := dnd5e.Decode(entry)
		if err != nil {
			vb.Fieldf("characters", "entry %d: %v", i, err)
			continue
		}
		if char.ID == "" {
			char.ID = p.idGen.Generate()
		}
		if seen[char.ID] {
			vb.Fieldf("characters", "entry %d: duplicate id %s", i, char.ID)
			continue
		}
		seen[char.ID] = true
		chars = append(chars, char)
	}
	if err := vb.Build(); err != nil {
		return nil, nil, err
	}

	return chars, doc.Settings, nil
}
