package checks

import (
	"time"

	"github.com/ukaji3/grantquality-go/pkg/grantquality/aggregates"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/jsonvalue"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/models"
)

// SampleMessages renders a representative message for every check of
// class, for reviewing the wording. Each check sees a single grant that
// carries nothing but an id, in a dataset of two grants; the reported
// count and percentage are then set to 2 and 0.5.
func SampleMessages(class Class) ([]models.CheckMessage, bool) {
	kinds, ok := KindsFor(class)
	if !ok {
		return nil, false
	}
	grant := jsonvalue.NewObject(jsonvalue.Member{Key: "id", Value: jsonvalue.NewString("moo")})
	out := make([]models.CheckMessage, 0, len(kinds))
	for _, k := range kinds {
		env := NewEnv([]jsonvalue.Value{grant}, &aggregates.Aggregates{Count: 2}, nil, time.Time{})
		c := k.New(env)
		c.Process(grant, "/")
		message := c.ProduceMessage()
		message.Count = 2
		message.Percentage = 0.5
		out = append(out, message)
	}
	return out, true
}
