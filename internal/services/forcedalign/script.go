package forcedalign

// alignerScript drives the WhisperX alignment model for known text. It
// reads one lyric line per row, distributes them evenly across the audio
// as seed segments, aligns, and writes flat (text, start, end) segments.
const alignerScript = `
import json
import sys

import whisperx


def main():
    if len(sys.argv) < 6:
        raise SystemExit("usage: <audio_path> <lines_path> <output_path> <language> <device>")
    audio_path, lines_path, output_path, language, device = sys.argv[1:6]
    language = (language or "en").strip() or "en"

    with open(lines_path, "r", encoding="utf-8") as handle:
        lines = [line.strip() for line in handle if line.strip()]
    if not lines:
        raise SystemExit("no lines to align")

    audio = whisperx.load_audio(audio_path)
    duration = len(audio) / 16000.0
    step = duration / len(lines)
    seeds = [
        {"text": text, "start": i * step, "end": (i + 1) * step}
        for i, text in enumerate(lines)
    ]

    model, metadata = whisperx.load_align_model(language_code=language, device=device)
    aligned = whisperx.align(seeds, model, metadata, audio, device, return_char_alignments=False)
    segments = [
        {"text": seg.get("text", "").strip(), "start": seg.get("start", 0.0), "end": seg.get("end", 0.0)}
        for seg in aligned.get("segments", [])
        if seg.get("text", "").strip()
    ]

    with open(output_path, "w", encoding="utf-8") as handle:
        json.dump({"segments": segments}, handle)


if __name__ == "__main__":
    main()
`
