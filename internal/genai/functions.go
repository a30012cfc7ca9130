package genai

import (
	"fmt"
	"math"
	"strings"

	"google.golang.org/genai"
)

// Intent display names as the fulfillment handlers know them.
const (
	IntentCourseDescription = "Engineering_Course_Description_D"
	IntentHostelFee         = "Hostel_Fee_D"
	IntentMeritScholarship  = "Merit_Scholarship_Rank_D"
	IntentPlacementRecord   = "Placement_Record_D"
	IntentIndustryPartners  = "IIIC_Partners_D"
	IntentSmallTalk         = "Small_Talk"
	// FallbackIntent is reported when no intent fits.
	FallbackIntent = "Default Fallback Intent"
)

// Function names offered to the model.
const (
	funcCourse      = "course_description"
	funcHostel      = "hostel_fee"
	funcScholarship = "merit_scholarship"
	funcPlacement   = "placement_record"
	funcPartners    = "industry_partners"
	funcSmallTalk   = "small_talk"
	funcFallback    = "fallback"
)

const (
	argConfidence = "confidence"
	argReply      = "reply"
)

// functionIntent maps each function name to the intent display name it reports.
var functionIntent = map[string]string{
	funcCourse:      IntentCourseDescription,
	funcHostel:      IntentHostelFee,
	funcScholarship: IntentMeritScholarship,
	funcPlacement:   IntentPlacementRecord,
	funcPartners:    IntentIndustryPartners,
	funcSmallTalk:   IntentSmallTalk,
	funcFallback:    FallbackIntent,
}

// IntentNames lists the fact intents a detector can report, in handler order.
func IntentNames() []string {
	return []string{
		IntentCourseDescription,
		IntentHostelFee,
		IntentPlacementRecord,
		IntentMeritScholarship,
		IntentIndustryPartners,
	}
}

func confidenceSchema() *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeNumber,
		Description: "How sure you are that this function matches the message, from 0 to 1.",
	}
}

// BuildIntentFunctions returns the function declarations for intent detection.
// Parameter names match the slot names the handlers read.
func BuildIntentFunctions() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{
		{
			Name:        funcCourse,
			Description: "Describe an engineering or pharmacy program offered by the university.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"engineeringcourse": {
						Type:        genai.TypeString,
						Description: "Program name or short form. Examples: \"CSE\", \"Civil Engineering\", \"B Pharmacy\", \"AI\"",
					},
					argConfidence: confidenceSchema(),
				},
				Required: []string{argConfidence},
			},
		},
		{
			Name:        funcHostel,
			Description: "Hostel and facilities fee for a gender and room type.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"gender": {
						Type:        genai.TypeString,
						Description: "Student gender: \"male\" or \"female\".",
					},
					"accommodationtype": {
						Type:        genai.TypeString,
						Description: "Room type. One of \"5 sharing\", \"4 sharing attached\", \"4 sharing with AC\".",
					},
					argConfidence: confidenceSchema(),
				},
				Required: []string{argConfidence},
			},
		},
		{
			Name:        funcScholarship,
			Description: "Merit scholarship for an entrance exam rank.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"entranceexam": {
						Type:        genai.TypeString,
						Description: "Entrance exam: \"ANURAGCET\", \"EAPCET\" or \"JEE\".",
					},
					"rankband": {
						Type:        genai.TypeString,
						Description: "Rank band exactly as written by the user, e.g. \"1-2000\". Leave empty when only a rank is given.",
					},
					"number": {
						Type:        genai.TypeNumber,
						Description: "The numeric rank, e.g. 4500.",
					},
					argConfidence: confidenceSchema(),
				},
				Required: []string{argConfidence},
			},
		},
		{
			Name:        funcPlacement,
			Description: "Number of student placements, for a given academic year or the latest one.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"Year": {
						Type:        genai.TypeString,
						Description: "Academic year as YYYY-YYYY, e.g. \"2022-2023\". Leave empty for the latest.",
					},
					argConfidence: confidenceSchema(),
				},
				Required: []string{argConfidence},
			},
		},
		{
			Name:        funcPartners,
			Description: "Industry partners and MOUs signed by the university.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					argConfidence: confidenceSchema(),
				},
				Required: []string{argConfidence},
			},
		},
		{
			Name:        funcSmallTalk,
			Description: "Greetings, thanks and goodbyes only. Reply briefly and politely.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					argReply: {
						Type:        genai.TypeString,
						Description: "A one-sentence reply in the user's language.",
					},
					argConfidence: confidenceSchema(),
				},
				Required: []string{argReply, argConfidence},
			},
		},
		{
			Name:        funcFallback,
			Description: "Any other question, including admissions, academics, facilities and general information.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					argConfidence: confidenceSchema(),
				},
				Required: []string{argConfidence},
			},
		},
	}
}

// detectionFromCall turns a function call into a Detection. A missing or
// non-numeric confidence counts as zero.
func detectionFromCall(name string, args map[string]any) (*Detection, error) {
	intent, ok := functionIntent[name]
	if !ok {
		return nil, fmt.Errorf("unknown function: %s", name)
	}

	det := &Detection{
		Intent:     intent,
		Confidence: confidenceOf(args[argConfidence]),
		Parameters: make(map[string]any, len(args)),
	}
	for k, v := range args {
		switch k {
		case argConfidence:
		case argReply:
			if name == funcSmallTalk {
				s, _ := v.(string)
				det.FulfillmentText = strings.TrimSpace(s)
			}
		default:
			if v != nil {
				det.Parameters[k] = v
			}
		}
	}
	return det, nil
}

func confidenceOf(v any) float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	default:
		return 0
	}
	if math.IsNaN(f) {
		return 0
	}
	return math.Max(0, math.Min(1, f))
}
