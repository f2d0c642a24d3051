package authz

import (
	"gorm.io/gorm"

	"projectms/internal/models"
)

// Actor identifies who is performing an operation. The identity comes
// from the verified JWT; the policy trusts it and does not re-derive.
type Actor struct {
	UserID  uint64
	IsAdmin bool
}

// Policy centralizes every project/task access decision. Handlers and
// services consult it instead of branching on the role inline, so the
// authorization contract is testable independent of transport.
type Policy struct{}

func NewPolicy() Policy {
	return Policy{}
}

// CanViewProject reports whether the actor may read the project:
// admins always, otherwise only members.
func (Policy) CanViewProject(actor Actor, project *models.Project) bool {
	if actor.IsAdmin {
		return true
	}
	for _, pu := range project.ProjectUsers {
		if pu.UserID == actor.UserID {
			return true
		}
	}
	return false
}

// CanViewTask reports whether the actor may read the task: admins
// always, otherwise assignees and members of the task's project.
func (Policy) CanViewTask(actor Actor, task *models.Task) bool {
	if actor.IsAdmin {
		return true
	}
	for _, tu := range task.TaskUsers {
		if tu.UserID == actor.UserID {
			return true
		}
	}
	for _, pu := range task.Project.ProjectUsers {
		if pu.UserID == actor.UserID {
			return true
		}
	}
	return false
}

// CanMutateTask gates task update/delete with the same membership rule
// as reads.
func (p Policy) CanMutateTask(actor Actor, task *models.Task) bool {
	return p.CanViewTask(actor, task)
}

// CanCreateTaskInProject reports whether the actor may add tasks to
// the project.
func (p Policy) CanCreateTaskInProject(actor Actor, project *models.Project) bool {
	return p.CanViewProject(actor, project)
}

// VisibleProjects returns a scope restricting a project query to what
// the actor may see. Admins get the unfiltered set.
func (Policy) VisibleProjects(actor Actor) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if actor.IsAdmin {
			return db
		}
		membership := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.ProjectUser{}).
			Select("1").
			Where("project_users.project_id = projects.id").
			Where("project_users.user_id = ?", actor.UserID)
		return db.Where("EXISTS (?)", membership)
	}
}

// VisibleTasks returns a scope restricting a task query to tasks the
// actor is assigned to or whose project the actor belongs to.
func (Policy) VisibleTasks(actor Actor) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if actor.IsAdmin {
			return db
		}
		assignment := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.TaskUser{}).
			Select("1").
			Where("task_users.task_id = tasks.id").
			Where("task_users.user_id = ?", actor.UserID)
		membership := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.ProjectUser{}).
			Select("1").
			Where("project_users.project_id = tasks.project_id").
			Where("project_users.user_id = ?", actor.UserID)
		return db.Where("EXISTS (?) OR EXISTS (?)", assignment, membership)
	}
}
