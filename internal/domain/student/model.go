package student

// Draft - все поля студента, кроме идентификатора. Ещё не сохранённая запись существует только как Draft.
type Draft struct {
	Name             string `json:"name" doc:"Student name"`
	College          string `json:"student_college" doc:"College the student attends"`
	Status           string `json:"status" doc:"Enrollment or placement status"`
	DSAScore         int    `json:"dsa_score" minimum:"0" doc:"Data structures and algorithms score"`
	WebDevScore      int    `json:"webd_score" minimum:"0" doc:"Web development score"`
	FrameworkScore   int    `json:"react_score" minimum:"0" doc:"Framework proficiency score"`
	InterviewDate    Date   `json:"interview_date" doc:"Interview date, null when not scheduled"`
	InterviewCompany string `json:"interview_company" doc:"Company that ran the interview"`
	InterviewResult  string `json:"interview_student_result" doc:"Interview outcome"`
}

// Student - сохранённая запись. ID назначает сервер, после создания он не меняется.
type Student struct {
	ID int `json:"id" doc:"Identifier assigned by the authority"`
	Draft
}

// Blank возвращает пустой черновик: пустые строки, нулевые баллы, без даты интервью.
func Blank() Draft {
	return Draft{}
}

// Clone копирует слайс записей
func Clone(in []Student) []Student {
	if in == nil {
		return nil
	}
	out := make([]Student, len(in))
	copy(out, in)
	return out
}
