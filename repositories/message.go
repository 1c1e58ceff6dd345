package repositories

import (
	"authorship-lab/domain"
	"authorship-lab/errors"
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/samber/lo"
)

// MessageFileExtension is the extension of an author's message file.
const MessageFileExtension = ".dat"

// maxRecordSize bounds one line of a message file.
const maxRecordSize = 1 << 20

// DiskMessage is the on-disk record of a message, one JSON object per line.
type DiskMessage struct {
	Tweet string `json:"tweet"`
	Pos   string `json:"pos,omitempty"`
}

// AuthorID derives the author identifier from a message file or feature directory path.
func AuthorID(path string) string {
	return strings.TrimSuffix(filepath.Base(path), MessageFileExtension)
}

// ReadMessages loads every record of an author's file in file order.
// Files whose content is not detected as text are refused.
func ReadMessages(path string) ([]domain.Message, error) {
	if err := ensureText(path); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	author := AuthorID(path)
	var messages []domain.Message
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordSize)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var record DiskMessage
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		messages = append(messages, toMessage(record, author))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return messages, nil
}

// WriteMessages persists the messages, one record per line.
func WriteMessages(path string, messages []domain.Message) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)
	encoder.SetEscapeHTML(false)
	for _, record := range lo.Map(messages, func(m domain.Message, _ int) DiskMessage { return fromMessage(m) }) {
		if err := encoder.Encode(record); err != nil {
			_ = file.Close()
			return err
		}
	}
	if err := writer.Flush(); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func ensureText(path string) error {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return err
	}
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return nil
		}
	}
	return fmt.Errorf("%w: %s is %s", errors.ErrNotTextFile, path, mtype.String())
}

func toMessage(record DiskMessage, author string) domain.Message {
	return domain.Message{
		Text:     record.Tweet,
		PosTags:  record.Pos,
		AuthorID: author,
	}
}

func fromMessage(message domain.Message) DiskMessage {
	return DiskMessage{
		Tweet: message.Text,
		Pos:   message.PosTags,
	}
}
