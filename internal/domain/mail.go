package domain

type MailType string

const (
	MailTypeVerificationCode  MailType = "verification_code"
	MailTypeWelcome           MailType = "welcome"
	MailTypeInterviewReminder MailType = "interview_reminder"
)

type MailMessage struct {
	Type MailType `json:"type"`
	To   string   `json:"to"`
	Data any      `json:"data"`
}

type VerificationCodeMailData struct {
	Code       string `json:"code"`
	Expiration int    `json:"expiration"`
}

type WelcomeMailData struct {
	Name        string `json:"nom"`
	FrontendURL string `json:"frontendURL"`
}

type InterviewReminderMailData struct {
	ManagerName  string `json:"managerName"`
	EmployeeName string `json:"employeeName"`
	Title        string `json:"titre"`
	ScheduledAt  string `json:"datePrevue"`
	FrontendURL  string `json:"frontendURL"`
}
