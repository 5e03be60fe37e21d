package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driven"
)

// instructionStore implements driven.InstructionStore.
type instructionStore struct {
	store *Store
}

var _ driven.InstructionStore = (*instructionStore)(nil)

const instructionColumns = `
	i.id, i.org_id, i.title, i.content, i.severity, i.status,
	i.keywords, i.keywords_version, i.file_uri, i.created_at, i.updated_at,
	f.id, f.name`

const instructionFrom = `
	FROM instructions i
	LEFT JOIN folders f ON f.id = i.folder_id`

// SaveInstruction stores or updates an instruction and its folder.
func (s *instructionStore) SaveInstruction(ctx context.Context, inst *domain.Instruction) error {
	if inst == nil || inst.ID == "" {
		return domain.ErrInvalidInput
	}

	terms := inst.Keywords.Terms
	if terms == nil {
		terms = []string{}
	}
	keywordsJSON, err := json.Marshal(terms)
	if err != nil {
		return fmt.Errorf("marshalling keywords: %w", err)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var folderID any
	if inst.Folder != nil && inst.Folder.ID != "" {
		folderID = inst.Folder.ID
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO folders (id, name) VALUES (?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name
		`, inst.Folder.ID, inst.Folder.Name); err != nil {
			return fmt.Errorf("saving folder: %w", err)
		}
	}

	var content any
	if inst.Content != nil {
		content = *inst.Content
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO instructions (id, org_id, title, content, severity, status,
			keywords, keywords_version, folder_id, file_uri, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			org_id = excluded.org_id,
			title = excluded.title,
			content = excluded.content,
			severity = excluded.severity,
			status = excluded.status,
			keywords = excluded.keywords,
			keywords_version = excluded.keywords_version,
			folder_id = excluded.folder_id,
			file_uri = excluded.file_uri,
			updated_at = excluded.updated_at
	`, inst.ID, inst.OrgID, inst.Title, content, string(inst.Severity), string(inst.Status),
		string(keywordsJSON), inst.Keywords.Version, folderID, nullString(inst.FileURI),
		formatTime(inst.CreatedAt), formatTime(inst.UpdatedAt))
	if err != nil {
		return fmt.Errorf("saving instruction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetInstruction retrieves an instruction by ID.
func (s *instructionStore) GetInstruction(ctx context.Context, id string) (*domain.Instruction, error) {
	row := s.store.db.QueryRowContext(ctx, "SELECT"+instructionColumns+instructionFrom+" WHERE i.id = ?", id)
	inst, err := scanInstruction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return inst, nil
}

// ListInstructions returns instructions matching the filter,
// most recently updated first. Ties are ordered by ID.
func (s *instructionStore) ListInstructions(
	ctx context.Context, filter driven.InstructionFilter,
) ([]domain.Instruction, error) {
	var where []string
	var args []any
	if filter.OrgID != "" {
		where = append(where, "i.org_id = ?")
		args = append(args, filter.OrgID)
	}
	if filter.Status != "" {
		where = append(where, "i.status = ?")
		args = append(args, string(filter.Status))
	}

	query := "SELECT" + instructionColumns + instructionFrom
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY i.updated_at DESC, i.id ASC"

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying instructions: %w", err)
	}
	instructions, err := collect(rows, func(r *sql.Rows) (domain.Instruction, error) {
		inst, err := scanInstruction(r)
		if err != nil {
			return domain.Instruction{}, err
		}
		return *inst, nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing instructions: %w", err)
	}
	if instructions == nil {
		instructions = []domain.Instruction{}
	}
	return instructions, nil
}

// DeleteInstruction removes an instruction. Chunks cascade.
func (s *instructionStore) DeleteInstruction(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM instructions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting instruction: %w", err)
	}
	return nil
}

// ReplaceChunks atomically swaps all chunks of an instruction.
func (s *instructionStore) ReplaceChunks(ctx context.Context, instructionID string, chunks []domain.Chunk) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE instruction_id = ?", instructionID); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}

	if len(chunks) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO chunks (id, instruction_id, chunk_index, content, embedding)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing statement: %w", err)
		}
		defer stmt.Close()

		for _, chunk := range chunks {
			if _, err := stmt.ExecContext(ctx, chunk.ID, instructionID, chunk.Index,
				chunk.Content, float32SliceToBytes(chunk.Embedding)); err != nil {
				return fmt.Errorf("saving chunk: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetChunks retrieves all chunks for an instruction ordered by index.
func (s *instructionStore) GetChunks(ctx context.Context, instructionID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, instruction_id, chunk_index, content, embedding
		FROM chunks WHERE instruction_id = ?
		ORDER BY chunk_index
	`, instructionID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	return collect(rows, func(r *sql.Rows) (domain.Chunk, error) {
		chunk, err := scanChunk(r)
		if err != nil {
			return domain.Chunk{}, err
		}
		return *chunk, nil
	})
}

// GetChunk retrieves a specific chunk by ID.
func (s *instructionStore) GetChunk(ctx context.Context, id string) (*domain.Chunk, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, instruction_id, chunk_index, content, embedding
		FROM chunks WHERE id = ?
	`, id)

	chunk, err := scanChunk(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return chunk, err
}

// CountChunks returns the number of chunks stored for an instruction.
func (s *instructionStore) CountChunks(ctx context.Context, instructionID string) (int, error) {
	var n int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chunks WHERE instruction_id = ?", instructionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanInstruction scans one instruction row. sql.ErrNoRows is returned unwrapped.
func scanInstruction(row scanner) (*domain.Instruction, error) {
	var inst domain.Instruction
	var content, fileURI, folderID, folderName sql.NullString
	var severity, status, keywordsJSON, createdAt, updatedAt string

	if err := row.Scan(&inst.ID, &inst.OrgID, &inst.Title, &content, &severity, &status,
		&keywordsJSON, &inst.Keywords.Version, &fileURI, &createdAt, &updatedAt,
		&folderID, &folderName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning instruction: %w", err)
	}

	if content.Valid {
		c := content.String
		inst.Content = &c
	}
	inst.Severity = domain.Severity(severity)
	inst.Status = domain.Status(status)
	inst.FileURI = fileURI.String
	if folderID.Valid {
		inst.Folder = &domain.Folder{ID: folderID.String, Name: folderName.String}
	}

	if err := json.Unmarshal([]byte(keywordsJSON), &inst.Keywords.Terms); err != nil {
		return nil, fmt.Errorf("unmarshaling keywords: %w", err)
	}

	var err error
	if inst.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if inst.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &inst, nil
}

// scanChunk scans one chunk row. sql.ErrNoRows is returned unwrapped.
func scanChunk(row scanner) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var embeddingBlob []byte

	if err := row.Scan(&chunk.ID, &chunk.InstructionID, &chunk.Index,
		&chunk.Content, &embeddingBlob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	chunk.Embedding = bytesToFloat32Slice(embeddingBlob)
	return &chunk, nil
}
