package telephony

import (
	"bytes"
	"encoding/xml"
)

// TwiML is a minimal Twilio Markup Language response builder.
// It intentionally avoids any provider SDK dependency.
//
// Only include the verbs the check-in scripts need at the adapter boundary.

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any    `xml:",any"`
}

type twimlSay struct {
	XMLName xml.Name `xml:"Say"`
	Voice   string   `xml:"voice,attr,omitempty"`
	Text    string   `xml:",chardata"`
}

type twimlPause struct {
	XMLName xml.Name `xml:"Pause"`
	Length  int      `xml:"length,attr"`
}

type twimlRecord struct {
	XMLName    xml.Name `xml:"Record"`
	Action     string   `xml:"action,attr"`
	Method     string   `xml:"method,attr"`
	MaxLength  int      `xml:"maxLength,attr"`
	PlayBeep   bool     `xml:"playBeep,attr"`
	Trim       string   `xml:"trim,attr,omitempty"`
	Transcribe bool     `xml:"transcribe,attr,omitempty"`
}

// Script accumulates verbs and renders them as one <Response>.
type Script struct {
	verbs []any
}

func NewScript() *Script { return &Script{} }

func (s *Script) Say(voice, text string) *Script {
	s.verbs = append(s.verbs, twimlSay{Voice: voice, Text: text})
	return s
}

func (s *Script) Pause(seconds int) *Script {
	s.verbs = append(s.verbs, twimlPause{Length: seconds})
	return s
}

func (s *Script) Record(r RecordOptions) *Script {
	method := r.Method
	if method == "" {
		method = "POST"
	}
	s.verbs = append(s.verbs, twimlRecord{
		Action:     r.Action,
		Method:     method,
		MaxLength:  r.MaxLengthSeconds,
		PlayBeep:   r.PlayBeep,
		Trim:       r.Trim,
		Transcribe: r.Transcribe,
	})
	return s
}

type RecordOptions struct {
	Action           string
	Method           string
	MaxLengthSeconds int
	PlayBeep         bool
	Trim             string
	Transcribe       bool
}

// Render serializes the script to a TwiML document.
func (s *Script) Render() (string, error) {
	r := twimlResponse{Verbs: s.verbs}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// EmptyResponse is the acknowledgement the recording webhook returns.
// Twilio reads the bare <Response></Response> as "no further spoken
// instructions"; the content, not the status code, carries the contract.
const EmptyResponse = "<Response></Response>"
