package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Collection names in the university document store.
const (
	CollectionCourses      = "engineering_courses"
	CollectionHostelFees   = "hostel_fees"
	CollectionScholarships = "scholarship_ranks"
	CollectionPlacements   = "placement_records"
	CollectionPartners     = "iiic_partners"
)

// PartnerListMOU is the only partner list the chatbot reads.
const PartnerListMOU = "MOU_Partners"

// CourseTypePharmacy marks courses that carry accreditation and NIRF details.
const CourseTypePharmacy = "Pharmacy"

// FlexString holds a document value that may be stored as either a string or
// a number (fees, ranks, counts). It renders numbers the way they were
// stored: integers without a decimal point, doubles with at least one.
type FlexString string

func (f FlexString) String() string { return string(f) }

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (f *FlexString) UnmarshalBSONValue(typ byte, data []byte) error {
	rv := bson.RawValue{Type: bson.Type(typ), Value: data}
	switch rv.Type {
	case bson.TypeString:
		*f = FlexString(rv.StringValue())
	case bson.TypeInt32:
		*f = FlexString(strconv.FormatInt(int64(rv.Int32()), 10))
	case bson.TypeInt64:
		*f = FlexString(strconv.FormatInt(rv.Int64(), 10))
	case bson.TypeDouble:
		*f = FlexString(formatDouble(rv.Double()))
	case bson.TypeNull, bson.TypeUndefined:
		*f = ""
	default:
		return fmt.Errorf("storage: cannot decode BSON %s into FlexString", rv.Type)
	}
	return nil
}

// UnmarshalJSON accepts JSON strings and numbers.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("storage: FlexString wants string or number: %w", err)
	}
	if strings.ContainsAny(n.String(), ".eE") {
		v, err := n.Float64()
		if err != nil {
			return err
		}
		*f = FlexString(formatDouble(v))
		return nil
	}
	*f = FlexString(n.String())
	return nil
}

func formatDouble(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// EngineeringCourse describes one academic program.
type EngineeringCourse struct {
	Alias         string     `bson:"alias" json:"alias"`
	Name          string     `bson:"name" json:"name"`
	Description   string     `bson:"description" json:"description"`
	Focus         string     `bson:"focus" json:"focus"`
	Type          string     `bson:"type" json:"type"`
	Accreditation string     `bson:"accreditation,omitempty" json:"accreditation,omitempty"`
	NIRFRank      FlexString `bson:"nirf_rank,omitempty" json:"nirf_rank,omitempty"`
}

// IsPharmacy reports whether the course carries accreditation details.
func (c *EngineeringCourse) IsPharmacy() bool {
	return c.Type == CourseTypePharmacy
}

// FeeOption is one accommodation choice within a hostel fee schedule.
type FeeOption struct {
	Alias         string     `bson:"alias" json:"alias"`
	Type          string     `bson:"type" json:"type"`
	AnnualFee     FlexString `bson:"annual_fee" json:"annual_fee"`
	FacilitiesFee FlexString `bson:"facilities_fee" json:"facilities_fee"`
	Note          string     `bson:"note,omitempty" json:"note,omitempty"`
}

// HostelFeeSchedule lists accommodation fees for one gender (MALE or FEMALE).
type HostelFeeSchedule struct {
	Gender string      `bson:"gender" json:"gender"`
	Fees   []FeeOption `bson:"fees" json:"fees"`
}

// Option returns the fee option with the exact alias, or nil.
func (s *HostelFeeSchedule) Option(alias string) *FeeOption {
	for i := range s.Fees {
		if s.Fees[i].Alias == alias {
			return &s.Fees[i]
		}
	}
	return nil
}

// RankBracket is one scholarship tier. ANURAGCET brackets key on Band;
// EAPCET/JEE brackets carry equivalent EAPCETBand and JEEBand values.
type RankBracket struct {
	Band       string     `bson:"band,omitempty" json:"band,omitempty"`
	EAPCETBand string     `bson:"eapcet_band,omitempty" json:"eapcet_band,omitempty"`
	JEEBand    string     `bson:"jee_band,omitempty" json:"jee_band,omitempty"`
	Concession string     `bson:"concession" json:"concession"`
	Value      FlexString `bson:"value" json:"value"`
}

// ScholarshipPolicy lists the merit brackets for one entrance exam.
type ScholarshipPolicy struct {
	Exam  string        `bson:"exam" json:"exam"`
	Ranks []RankBracket `bson:"ranks" json:"ranks"`
}

// PlacementRecord is the placement count for one academic year.
// Lower SortOrder means more recent.
type PlacementRecord struct {
	Year      string     `bson:"year" json:"year"`
	Number    FlexString `bson:"number" json:"number"`
	SortOrder int        `bson:"sort_order" json:"sort_order"`
}

// PartnerList is an ordered list of industry partner names.
type PartnerList struct {
	ListName string   `bson:"list_name" json:"list_name"`
	Partners []string `bson:"partners" json:"partners"`
}
