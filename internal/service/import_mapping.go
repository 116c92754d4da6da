package service

import (
	"regexp"
	"strings"

	"examiner-registry-backend/internal/domain"
)

var (
	lineBreaks = regexp.MustCompile(`[\r\n]+`)
	spaces     = regexp.MustCompile(`\s+`)
)

// importColumns pairs spreadsheet headers with document fields. Lookups go through
// normalizeHeader on both sides.
var importColumns = [][2]string{
	{"SL", "sl"},
	{"Nick Name", "nickName"},
	{"Status", "status"},
	{"T-PIN", "tPin"},
	{"Inst.", "inst"},
	{"Dept.", "dept"},
	{"HSC Batch", "hscBatch"},
	{"Rm", "rm"},
	{"Remarked By", "remarkedBy"},
	{"Mobile Number", "mobileNumber"},
	{"Alternate", "alternateMobile"},
	{"Mobile Banking Number", "mobileBankingNumber"},
	{"Payment Method", "paymentMethod"},
	{"Mobile Banking Account Owner", "mobileBankingOwner"},
	{"Mobile Banking Number Confirmed By", "mobileBankingConfirmedBy"},
	{"Running Program", "runningProgram"},
	{"Previous Program", "previousProgram"},
	{"Physically Scripts Checking Subject", "physicallyCheckSubjects"},
	{"Online Subject Permission", "onlineSubjectPermission"},
	{"TIN Given Date / TIN PDF Link", "tinDateLink"},
	{"TIN Number", "tinNumber"},
	{"E-mail", "email"},
	{"Teams/Skype ID", "teamsSkypeId"},
	{"Facebook ID", "facebookId"},
	{"ID (Old)", "oldId"},
	{"Admission Position", "admissionPosition"},
	{"Admission Unit", "admissionUnit"},
	{"HSC Roll", "hscRoll"},
	{"HSC Reg.", "hscReg"},
	{"HSC Board", "hscBoard"},
	{"HSC GPA", "hscGpa"},
	{"Medium of education upto HSC Level", "mediumHsc"},
	{"Which way do you want to see the scripts?", "scriptCheckMethod"},
	{"Subject 1", "subject1"},
	{"Subject 2", "subject2"},
	{"Subject 3", "subject3"},
	{"Subject 4", "subject4"},
	{"Subject 5", "subject5"},
	{"Version Interested", "versionInterested"},
	{"Udvash Unmesh Roll / Registration", "udvashRoll"},
	{"Participated Programmes in Udvash Unmesh", "participatedPrograms"},
	{"Branch", "branch"},
	{"Full Name", "fullName"},
	{"বাংলায় সম্পূর্ণ নাম", "fullNameBn"},
	{"Religion", "religion"},
	{"Gender", "gender"},
	{"Date of Birth", "dob"},
	{"Blood Donate", "bloodDonate"},
	{"Blood Group", "bloodGroup"},
	{"Last DateDate", "lastUpdateDate"},
	{"College Name", "collegeName"},
	{"Father's Name", "fatherName"},
	{"Father's Occupation", "fatherOccupation"},
	{"Father's Designation", "fatherDesignation"},
	{"Father's Mobile", "fatherMobile"},
	{"Mother's Name", "motherName"},
	{"Mother's Occupation", "motherOccupation"},
	{"Mother's Mobile", "motherMobile"},
	{"NID No.", "nidNo"},
	{"Present Area", "presentArea"},
	{"Home District", "homeDistrict"},
	{"English(%)", "englishMarks"},
	{"English Set", "englishSet"},
	{"English Exam Date", "englishDate"},
	{"Bangla(%)", "banglaMarks"},
	{"Bangla Set", "banglaSet"},
	{"Bangla Exam Date", "banglaDate"},
	{"Physics(%)", "physicsMarks"},
	{"Physics Set", "physicsSet"},
	{"Physics Exam Date", "physicsDate"},
	{"Chemistry (%)", "chemistryMarks"},
	{"Chemistry Set", "chemistrySet"},
	{"Chemistry Exam Date", "chemistryDate"},
	{"Math (%)", "mathMarks"},
	{"Math Set", "mathSet"},
	{"Math Exam Date", "mathDate"},
	{"Biology (%)", "biologyMarks"},
	{"Biology Set", "biologySet"},
	{"Biology Exam Date", "biologyDate"},
	{"ICT(%)", "ictMarks"},
	{"ICT Set", "ictSet"},
	{"ICT Exam Date", "ictDate"},
	{"Training Report", "trainingReport"},
	{"Training Date", "trainingDate"},
	{"Form Fill Up Campus", "formFillUpCampus"},
	{"ID Checked?", "idChecked"},
	{"Entry By", "entryBy"},
	{"Form Fill Up Date", "formFillUpDate"},
	{"In Which Campus You Want To Check Scripts physically?", "checkScriptsCampus"},
	{"In which Shift do you want to check the scripts? (Maximum 2 Shifts can be selected) Only write the name of the Shift (No need to write the timing of the Shift)", "checkScriptsShift"},
	{"Reference", "reference"},
	{"Selected Subject", "selectedSubject"},
	{"RM 4 Comment", "rm4Comment"},
	{"Photo", "photoUrl"},
	{"Docoment", "documentLink"},
}

var normalizedColumns = func() map[string]string {
	out := make(map[string]string, len(importColumns))
	for _, col := range importColumns {
		out[normalizeHeader(col[0])] = col[1]
	}
	return out
}()

func normalizeHeader(h string) string {
	h = lineBreaks.ReplaceAllString(h, " ")
	h = spaces.ReplaceAllString(h, " ")
	return strings.ToLower(strings.TrimSpace(h))
}

// MapImportRow converts one spreadsheet row into document fields. Unknown headers and
// empty cells are dropped; an SL that is not a positive integer is left out.
func MapImportRow(row map[string]string) map[string]any {
	out := make(map[string]any, len(row))
	for header, raw := range row {
		field, ok := normalizedColumns[normalizeHeader(header)]
		if !ok {
			continue
		}
		val := strings.TrimSpace(raw)
		switch field {
		case "idChecked":
			out[field] = strings.EqualFold(val, "yes") || val == "true"
		case "sl":
			if sl, ok := domain.ParseSerial(val); ok {
				out[field] = sl
			}
		default:
			if val != "" {
				out[field] = val
			}
		}
	}
	return out
}
