package telephony

const checkInVoice = "alice"

// CheckInScript renders the daily check-in call flow: a greeting, then three
// recorded prompts (mood, medication, sleep), then a closing statement.
// The script is static; it does not branch on prior answers. Each recording
// posts its result to recordingAction.
func CheckInScript(recordingAction string) (string, error) {
	record := RecordOptions{
		Action:           recordingAction,
		Method:           "POST",
		MaxLengthSeconds: 30,
		PlayBeep:         true,
		Trim:             "trim-silence",
	}

	s := NewScript().
		Say(checkInVoice, "Hello! This is your VoiceBridge assistant. I'm here to check in on you today.").
		Pause(1).
		Say(checkInVoice, "How are you feeling today? Please tell me about your mood.").
		Record(record).
		Say(checkInVoice, "Thank you for sharing. Have you taken your medications today?").
		Record(record).
		Say(checkInVoice, "How did you sleep last night?").
		Record(record).
		Say(checkInVoice, "Thank you for your time. I'll share this information with your caregiver. Have a wonderful day!")

	return s.Render()
}

// VoicemailScript renders the inbound call-hook flow: a single long
// recording with provider-side transcription requested.
func VoicemailScript(recordingAction string) (string, error) {
	s := NewScript().
		Say("", "Hello! Please leave a message after the beep.").
		Record(RecordOptions{
			Action:           recordingAction,
			Method:           "POST",
			MaxLengthSeconds: 120,
			Transcribe:       true,
		})
	return s.Render()
}
