/*
Package authz applies role-based widget rules to the forms.

PURPOSE:
  The Rol_Yetkileri sheet holds (role, form_code, widget_name, action)
  tuples. At login the active role's rows are loaded once into a rule
  map; for the rest of the session Apply walks the map for a form code
  and hides or disables the named widgets.

CAPABILITY, NOT REFLECTION:
  The engine never inspects form objects. The UI registers a WidgetHost
  per form code that resolves widget names to visibility/enabled setters.
  A rule naming a widget the host doesn't know is logged at Warn and
  skipped; the applier is always non-fatal.

DEFAULT ON LOAD FAILURE:
  An unreadable rule table yields an empty map: deny-nothing. The failure
  is logged at Error so the operator can see the session is unrestricted.
  (Permissive by default; see the open-question note in DESIGN.md.)
*/
package authz

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/radkit/radpersonel/repo"
)

// =============================================================================
// ACTIONS AND RULES
// =============================================================================

// Action codes are ASCII by convention (dotless I), so plain ToUpper is
// correct here; Turkish casing would turn PASIF into PASİF.
type Action string

const (
	ActionHide    Action = "GIZLE"
	ActionDisable Action = "PASIF"
)

// Rol_Yetkileri columns.
const (
	ColRole   = "Rol"
	ColForm   = "Form_Kodu"
	ColWidget = "Widget_Adi"
	ColAction = "Eylem"
)

// Rules maps form_code -> widget_name -> action.
type Rules map[string]map[string]Action

// =============================================================================
// WIDGET HOST CAPABILITY
// =============================================================================

// Widget is the slice of a UI control the applier needs.
type Widget interface {
	SetVisible(visible bool)
	SetEnabled(enabled bool)
}

// WidgetHost resolves widget names for one form instance.
type WidgetHost interface {
	Widget(name string) (Widget, bool)
}

// =============================================================================
// AUTHORIZER
// =============================================================================

// Authorizer holds one session's rules. Loaded at login, read-only after.
type Authorizer struct {
	role  string
	rules Rules
	log   *zap.Logger
}

// Load reads the rule table for role. Failure to load yields an empty
// (deny-nothing) rule set.
func Load(ctx context.Context, constants *repo.ConstantsRepo, role string, log *zap.Logger) *Authorizer {
	if log == nil {
		log = zap.NewNop()
	}
	a := &Authorizer{role: role, rules: make(Rules), log: log}

	records, err := constants.RoleRules(ctx)
	if err != nil {
		log.Error("role rules could not be loaded; session runs unrestricted",
			zap.String("role", role), zap.Error(err))
		return a
	}

	for _, rec := range records {
		if strings.TrimSpace(rec[ColRole]) != role {
			continue
		}
		form := strings.TrimSpace(rec[ColForm])
		widget := strings.TrimSpace(rec[ColWidget])
		action := Action(strings.ToUpper(strings.TrimSpace(rec[ColAction])))
		if form == "" || widget == "" {
			continue
		}
		if a.rules[form] == nil {
			a.rules[form] = make(map[string]Action)
		}
		a.rules[form][widget] = action
	}
	return a
}

// Role returns the role the rules were loaded for.
func (a *Authorizer) Role() string { return a.role }

// RuleCount reports how many widget rules are active (0 after a failed
// load).
func (a *Authorizer) RuleCount() int {
	n := 0
	for _, widgets := range a.rules {
		n += len(widgets)
	}
	return n
}

// Apply enforces the form's rules against the host. Never fails: missing
// widgets and unknown actions are logged and skipped.
func (a *Authorizer) Apply(host WidgetHost, formCode string) {
	for name, action := range a.rules[formCode] {
		w, ok := host.Widget(name)
		if !ok {
			a.log.Warn("authorization rule names a missing widget",
				zap.String("form", formCode),
				zap.String("widget", name))
			continue
		}
		switch action {
		case ActionHide:
			w.SetVisible(false)
		case ActionDisable:
			w.SetEnabled(false)
		default:
			a.log.Warn("unknown authorization action",
				zap.String("form", formCode),
				zap.String("widget", name),
				zap.String("action", string(action)))
		}
	}
}
