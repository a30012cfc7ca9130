package genai

import "strings"

// detectorSystemPrompt tells the model WHEN to call each function. What each
// function does lives in its declaration.
const detectorSystemPrompt = `You classify messages sent to the Anurag University (Hyderabad, India) help desk.
Call exactly one function for every message.

Rules:
- course_description: the user asks what a program is about, e.g. "tell me about CSE".
- hostel_fee: the user asks about hostel or room fees. Fill gender and accommodationtype only if stated.
- merit_scholarship: the user asks about scholarships or concessions for an entrance exam rank.
  Put a written band such as "1-2000" in rankband and a plain rank such as 4500 in number.
- placement_record: the user asks how many students were placed. Put the academic year in Year if given.
- industry_partners: the user asks about MOUs, industry partners or collaborations.
- small_talk: greetings, thanks and goodbyes only.
- fallback: everything else, including admissions, fees other than hostel, facilities and events.

Never invent parameter values the user did not give.
Set confidence honestly; use less than 0.5 when unsure.`

func systemPrompt(languageCode string) string {
	code := strings.TrimSpace(languageCode)
	if code == "" {
		return detectorSystemPrompt
	}
	return detectorSystemPrompt + "\nThe user's language code is " + code + "; write any reply in that language."
}
