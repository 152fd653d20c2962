package dto

// SynthesizeRequest carries one voice-cloning job: the text to speak, the
// language code and the uploaded reference sample.
type SynthesizeRequest struct {
	Text      string
	Language  string
	VoiceData []byte
	VoiceExt  string
}
