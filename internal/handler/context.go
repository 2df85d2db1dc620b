package handler

type ContextKey string

var (
	RequestIDCtxKey   ContextKey = "requestID"
	ManagerIDCtxKey   ContextKey = "managerID"
	EmployeeCtx       ContextKey = "employee"
	InterviewCtx      ContextKey = "interview"
	NoteCtx           ContextKey = "note"
	GoalTemplateCtx   ContextKey = "goalTemplate"
	GoalAssignmentCtx ContextKey = "goalAssignment"
)
