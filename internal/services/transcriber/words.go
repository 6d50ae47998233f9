package transcriber

import (
	"encoding/json"
	"fmt"
	"os"
)

// Word is a single transcribed word with its time range in seconds.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Words []Word  `json:"words"`
}

// whisperXPayload is the JSON structure from WhisperX output.
type whisperXPayload struct {
	Segments []segment `json:"segments"`
}

// LoadWords flattens the word lists of a WhisperX JSON file into one
// ordered stream. Words WhisperX could not time (zero-width entries at the
// segment edge) inherit the enclosing segment's boundary so ordering holds.
func LoadWords(jsonPath string) ([]Word, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	return ParseWords(data)
}

// ParseWords extracts the word stream from raw WhisperX JSON.
func ParseWords(data []byte) ([]Word, error) {
	var payload whisperXPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse whisperx json: %w", err)
	}
	var words []Word
	for _, seg := range payload.Segments {
		for _, word := range seg.Words {
			if word.Start == 0 && word.End == 0 && seg.Start > 0 {
				word.Start = seg.Start
				word.End = seg.Start
			}
			words = append(words, word)
		}
	}
	return words, nil
}

// Duration returns the audio duration implied by the word stream: the
// maximum end time seen. No extra probe of the audio file is needed.
func Duration(words []Word) float64 {
	var max float64
	for _, word := range words {
		if word.End > max {
			max = word.End
		}
	}
	return max
}
