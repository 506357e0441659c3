package handler

type ContextKey string

var (
	SubCtxKey       ContextKey = "sub"
	StaffCtx        ContextKey = "staff"
	TaskTemplateCtx ContextKey = "taskTemplate"
	AssignedTaskCtx ContextKey = "assignedTask"
)
