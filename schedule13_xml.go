package sc13dg

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Schedule13Filing is a Schedule 13D or 13G filed as structured XML
// (edgarSubmission), accepted by EDGAR since December 2024.
type Schedule13Filing struct {
	FormType        FormType `json:"form_type"`
	AmendmentNumber *int     `json:"amendment_number,omitempty"`
	FilerCIK        string   `json:"filer_cik"`

	IssuerCIK     string `json:"issuer_cik"`
	IssuerName    string `json:"issuer_name"`
	IssuerCUSIP   string `json:"issuer_cusip"`
	SecurityTitle string `json:"security_title"`

	// DateOfEvent is the event date requiring the filing.
	DateOfEvent string `json:"date_of_event"`
	// RuleDesignations lists Rule 13d-1(b), (c) or (d) (13G only).
	RuleDesignations []string `json:"rule_designations,omitempty"`

	ReportingPersons []ReportingPerson13 `json:"reporting_persons"`
}

// ReportingPerson13 is one reporting person's cover page.
type ReportingPerson13 struct {
	CIK   string `json:"cik,omitempty"`
	Name  string `json:"name"`
	NoCIK bool   `json:"no_cik"`

	// Raw answers as filed.
	SoleVotingPower        string `json:"sole_voting_power"`
	SharedVotingPower      string `json:"shared_voting_power"`
	SoleDispositivePower   string `json:"sole_dispositive_power"`
	SharedDispositivePower string `json:"shared_dispositive_power"`
	AggregateAmountOwned   string `json:"aggregate_amount_owned"`
	PercentOfClass         string `json:"percent_of_class"`

	// MemberOfGroup is "a" or "b" for question 2.
	MemberOfGroup         string `json:"member_of_group,omitempty"`
	IsAggregateExclude    bool   `json:"is_aggregate_exclude"`
	TypeOfReportingPerson string `json:"type_of_reporting_person"`
	FundType              string `json:"fund_type,omitempty"` // 13D only
	Citizenship           string `json:"citizenship"`
}

// Shares returns the aggregate amount owned as a number.
func (r *ReportingPerson13) Shares() int64 {
	return parseInt64(r.AggregateAmountOwned)
}

// Percent returns the percent of class as a number.
func (r *ReportingPerson13) Percent() float64 {
	return parseFloat64(r.PercentOfClass)
}

// XML structures for Schedule 13D
// xmlns="http://www.sec.gov/edgar/schedule13D"

type schedule13DXML struct {
	XMLName    xml.Name        `xml:"edgarSubmission"`
	HeaderData schedule13Header `xml:"headerData"`
	FormData   struct {
		CoverPageHeader struct {
			SecuritiesClassTitle string `xml:"securitiesClassTitle"`
			DateOfEvent          string `xml:"dateOfEvent"`
			IssuerInfo           struct {
				IssuerCIK   string `xml:"issuerCIK"`
				IssuerCUSIP string `xml:"issuerCUSIP"`
				IssuerName  string `xml:"issuerName"`
			} `xml:"issuerInfo"`
		} `xml:"coverPageHeader"`
		ReportingPersons struct {
			ReportingPersonInfo []struct {
				ReportingPersonCIK        string `xml:"reportingPersonCIK"`
				ReportingPersonName       string `xml:"reportingPersonName"`
				ReportingPersonNoCIK      string `xml:"reportingPersonNoCIK"`
				FundType                  string `xml:"fundType"`
				CitizenshipOrOrganization string `xml:"citizenshipOrOrganization"`
				SoleVotingPower           string `xml:"soleVotingPower"`
				SharedVotingPower         string `xml:"sharedVotingPower"`
				SoleDispositivePower      string `xml:"soleDispositivePower"`
				SharedDispositivePower    string `xml:"sharedDispositivePower"`
				AggregateAmountOwned      string `xml:"aggregateAmountOwned"`
				IsAggregateExcludeShares  string `xml:"isAggregateExcludeShares"`
				PercentOfClass            string `xml:"percentOfClass"`
				TypeOfReportingPerson     string `xml:"typeOfReportingPerson"`
				MemberOfGroup             string `xml:"memberOfGroup"`
			} `xml:"reportingPersonInfo"`
		} `xml:"reportingPersons"`
	} `xml:"formData"`
}

// XML structures for Schedule 13G
// xmlns="http://www.sec.gov/edgar/schedule13g"
// Element names differ from 13D.

type schedule13GXML struct {
	XMLName    xml.Name        `xml:"edgarSubmission"`
	HeaderData schedule13Header `xml:"headerData"`
	FormData   struct {
		CoverPageHeader struct {
			SecuritiesClassTitle                 string `xml:"securitiesClassTitle"`
			EventDateRequiresFilingThisStatement string `xml:"eventDateRequiresFilingThisStatement"`
			IssuerInfo                           struct {
				IssuerCik   string `xml:"issuerCik"`
				IssuerName  string `xml:"issuerName"`
				IssuerCusip string `xml:"issuerCusip"`
			} `xml:"issuerInfo"`
			DesignateRules []string `xml:"designateRulesPursuantThisScheduleFiled>designateRulePursuantThisScheduleFiled"`
		} `xml:"coverPageHeader"`
		ReportingPersonDetails []struct {
			ReportingPersonName       string `xml:"reportingPersonName"`
			ReportingPersonNoCIK      string `xml:"reportingPersonNoCIK"`
			CitizenshipOrOrganization string `xml:"citizenshipOrOrganization"`
			Shares                    struct {
				SoleVotingPower        string `xml:"soleVotingPower"`
				SharedVotingPower      string `xml:"sharedVotingPower"`
				SoleDispositivePower   string `xml:"soleDispositivePower"`
				SharedDispositivePower string `xml:"sharedDispositivePower"`
			} `xml:"reportingPersonBeneficiallyOwnedNumberOfShares"`
			AggregateNumberOfShares  string `xml:"reportingPersonBeneficiallyOwnedAggregateNumberOfShares"`
			ClassPercent             string `xml:"classPercent"`
			MemberGroup              string `xml:"memberGroup"`
			TypeOfReportingPerson    string `xml:"typeOfReportingPerson"`
			IsAggregateExcludeShares string `xml:"isAggregateExcludeShares"`
		} `xml:"coverPageHeaderReportingPersonDetails"`
	} `xml:"formData"`
}

type schedule13Header struct {
	SubmissionType string `xml:"submissionType"`
	FilerCIK       string `xml:"filerInfo>filer>filerCredentials>cik"`
}

// ParseSchedule13XML parses a Schedule 13D or 13G edgarSubmission.
func ParseSchedule13XML(data []byte) (*Schedule13Filing, error) {
	data = unwrapXML(data)
	switch DetectDocumentKind(data) {
	case KindXML13D:
		return parseSchedule13D(data)
	case KindXML13G:
		return parseSchedule13G(data)
	}
	return nil, fmt.Errorf("%w: not a Schedule 13D/13G XML submission", ErrUnsupportedFormType)
}

func parseSchedule13D(data []byte) (*Schedule13Filing, error) {
	var doc schedule13DXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse Schedule 13D XML: %w", err)
	}

	cover := doc.FormData.CoverPageHeader
	filing, err := newSchedule13Filing(doc.HeaderData)
	if err != nil {
		return nil, err
	}
	filing.IssuerCIK = cover.IssuerInfo.IssuerCIK
	filing.IssuerName = NormalizeXMLText(cover.IssuerInfo.IssuerName)
	filing.IssuerCUSIP = cover.IssuerInfo.IssuerCUSIP
	filing.SecurityTitle = NormalizeXMLText(cover.SecuritiesClassTitle)
	filing.DateOfEvent = cover.DateOfEvent

	for _, p := range doc.FormData.ReportingPersons.ReportingPersonInfo {
		person := ReportingPerson13{
			CIK:                    p.ReportingPersonCIK,
			Name:                   NormalizeXMLText(p.ReportingPersonName),
			NoCIK:                  isYes(p.ReportingPersonNoCIK),
			SoleVotingPower:        p.SoleVotingPower,
			SharedVotingPower:      p.SharedVotingPower,
			SoleDispositivePower:   p.SoleDispositivePower,
			SharedDispositivePower: p.SharedDispositivePower,
			AggregateAmountOwned:   p.AggregateAmountOwned,
			PercentOfClass:         p.PercentOfClass,
			MemberOfGroup:          strings.ToLower(strings.TrimSpace(p.MemberOfGroup)),
			IsAggregateExclude:     isYes(p.IsAggregateExcludeShares),
			TypeOfReportingPerson:  p.TypeOfReportingPerson,
			FundType:               p.FundType,
			Citizenship:            NormalizeXMLText(p.CitizenshipOrOrganization),
		}
		filing.addPerson(person)
	}
	return filing, nil
}

func parseSchedule13G(data []byte) (*Schedule13Filing, error) {
	var doc schedule13GXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse Schedule 13G XML: %w", err)
	}

	cover := doc.FormData.CoverPageHeader
	filing, err := newSchedule13Filing(doc.HeaderData)
	if err != nil {
		return nil, err
	}
	filing.IssuerCIK = cover.IssuerInfo.IssuerCik
	filing.IssuerName = NormalizeXMLText(cover.IssuerInfo.IssuerName)
	filing.IssuerCUSIP = cover.IssuerInfo.IssuerCusip
	filing.SecurityTitle = NormalizeXMLText(cover.SecuritiesClassTitle)
	filing.DateOfEvent = cover.EventDateRequiresFilingThisStatement
	filing.RuleDesignations = cover.DesignateRules

	for _, p := range doc.FormData.ReportingPersonDetails {
		person := ReportingPerson13{
			Name:                   NormalizeXMLText(p.ReportingPersonName),
			NoCIK:                  isYes(p.ReportingPersonNoCIK),
			SoleVotingPower:        p.Shares.SoleVotingPower,
			SharedVotingPower:      p.Shares.SharedVotingPower,
			SoleDispositivePower:   p.Shares.SoleDispositivePower,
			SharedDispositivePower: p.Shares.SharedDispositivePower,
			AggregateAmountOwned:   p.AggregateNumberOfShares,
			PercentOfClass:         p.ClassPercent,
			MemberOfGroup:          strings.ToLower(strings.TrimSpace(p.MemberGroup)),
			IsAggregateExclude:     isYes(p.IsAggregateExcludeShares),
			TypeOfReportingPerson:  p.TypeOfReportingPerson,
			Citizenship:            NormalizeXMLText(p.CitizenshipOrOrganization),
		}
		filing.addPerson(person)
	}
	return filing, nil
}

func newSchedule13Filing(h schedule13Header) (*Schedule13Filing, error) {
	form, err := ParseFormType(h.SubmissionType)
	if err != nil {
		return nil, err
	}
	filing := &Schedule13Filing{FormType: form, FilerCIK: h.FilerCIK}
	if n, ok := AmendmentNumber(h.SubmissionType); ok {
		filing.AmendmentNumber = &n
	}
	return filing, nil
}

// addPerson appends a reporting person, falling back to the filer CIK when
// the person has none and is not flagged as having none.
func (s *Schedule13Filing) addPerson(p ReportingPerson13) {
	if p.CIK == "" && !p.NoCIK {
		p.CIK = s.FilerCIK
	}
	s.ReportingPersons = append(s.ReportingPersons, p)
}

// Records maps the structured cover pages onto the same record shape the
// text extractor produces.
func (s *Schedule13Filing) Records() []ExtractedRecord {
	var cusips []string
	if id := nonAlnumRe.ReplaceAllString(upperASCII(s.IssuerCUSIP), ""); id != "" {
		cusips = []string{id}
	}

	records := make([]ExtractedRecord, 0, len(s.ReportingPersons))
	for i, p := range s.ReportingPersons {
		rec := ExtractedRecord{
			Seq:                    i + 1,
			CUSIPs:                 cusips,
			SEDOLs:                 []string{},
			ReportingPersonName:    p.Name,
			Box2a:                  p.MemberOfGroup == "a",
			Box2b:                  p.MemberOfGroup == "b",
			Citizenship:            p.Citizenship,
			SoleVotingPower:        strings.TrimSpace(p.SoleVotingPower),
			SharedVotingPower:      strings.TrimSpace(p.SharedVotingPower),
			SoleDispositivePower:   strings.TrimSpace(p.SoleDispositivePower),
			SharedDispositivePower: strings.TrimSpace(p.SharedDispositivePower),
			AggregateAmountOwned:   strings.TrimSpace(p.AggregateAmountOwned),
			CertainSharesExcluded:  p.IsAggregateExclude,
			PercentOfClass:         strings.TrimSpace(p.PercentOfClass),
			ReportingPersonType:    personTypeRe.FindAllString(upperASCII(p.TypeOfReportingPerson), -1),
		}
		if s.FormType.Is13D() {
			rec.SourceOfFunds = sourceOfFundsRe.FindAllString(upperASCII(p.FundType), -1)
		}
		records = append(records, rec)
	}
	return records
}

// extractXML builds an Extraction for a structured submission. It has no
// free text, so every boundary is NotFound.
func extractXML(data []byte, form FormType) (*Extraction, error) {
	filing, err := ParseSchedule13XML(data)
	if err != nil {
		return nil, err
	}
	return &Extraction{
		FormType:        form,
		Segments:        &SegmentMap{FormType: form, TextLen: len(data)},
		AmendmentNumber: filing.AmendmentNumber,
		Records:         filing.Records(),
		Structured:      filing,
	}, nil
}

func isYes(s string) bool {
	s = strings.ToUpper(strings.TrimSpace(s))
	return s == "Y" || s == "YES" || s == "TRUE"
}

var (
	firstIntegerRe = regexp.MustCompile(`[0-9,]+`)
	firstDecimalRe = regexp.MustCompile(`[0-9,]+\.?[0-9]*`)
)

// parseInt64 reads the first number in s, e.g. "1,874,978 (1)". "-0-"
// reads as zero.
func parseInt64(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" || strings.Contains(s, "-0-") {
		return 0
	}
	match := strings.ReplaceAll(firstIntegerRe.FindString(s), ",", "")
	if val, err := strconv.ParseInt(match, 10, 64); err == nil {
		return val
	}
	return 0
}

// parseFloat64 reads the first decimal in s, e.g. "5.1% (1)".
func parseFloat64(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || strings.Contains(s, "-0-") {
		return 0
	}
	match := strings.ReplaceAll(firstDecimalRe.FindString(s), ",", "")
	if f, err := strconv.ParseFloat(match, 64); err == nil {
		return f
	}
	return 0
}
