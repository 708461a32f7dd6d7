package notify

import (
	"context"
	"fmt"

	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
	"github.com/philipp-moriss/volunteers-backend/internal/core/ports"
	"github.com/philipp-moriss/volunteers-backend/pkg/translator"
)

// Dispatcher turns a queued event into sink calls.
type Dispatcher struct {
	sink ports.NotificationSink
}

var _ ports.NotificationDispatcher = (*Dispatcher)(nil)

func NewDispatcher(sink ports.NotificationSink) *Dispatcher {
	return &Dispatcher{sink: sink}
}

func (d *Dispatcher) Dispatch(ctx context.Context, event domain.NotificationEvent) error {
	payload := payloadByLanguage(event)

	switch event.Audience {
	case domain.AudienceUser:
		if event.UserID == "" {
			return nil
		}
		return d.sink.NotifyUser(ctx, event.UserID, payload)
	case domain.AudienceSkillsAndCity:
		return d.sink.NotifyUsersBySkillsAndCity(ctx, event.SkillIDs, event.ProgramID, event.CityID, payload)
	case domain.AudienceProgram:
		return d.sink.NotifyAllProgramVolunteers(ctx, event.ProgramID, event.CityID, payload)
	case domain.AudienceOthersExcept:
		return d.sink.NotifyOthersExcept(ctx, event.ProgramID, event.ExcludeUserID, event.SkillIDs, event.CityID, payload)
	}
	return fmt.Errorf("unknown notification audience %q", event.Audience)
}

// payloadByLanguage renders <message>Title and <message>Body for each
// recipient language.
func payloadByLanguage(event domain.NotificationEvent) ports.PayloadFunc {
	templateData := map[string]string{"TaskTitle": event.TaskTitle}

	data := make(map[string]string, len(event.Data)+2)
	for k, v := range event.Data {
		data[k] = v
	}
	data["type"] = string(event.Kind)
	data["taskId"] = event.TaskID

	return func(lang string) domain.NotificationPayload {
		return domain.NotificationPayload{
			Title: translator.Localize(lang, event.Message+"Title", templateData),
			Body:  translator.Localize(lang, event.Message+"Body", templateData),
			Data:  data,
			Tag:   "task-" + event.TaskID,
		}
	}
}
