package event_bus

const (
	ScheduleEventCreatedType EventType = "schedule.event.created"
	ScheduleEventUpdatedType EventType = "schedule.event.updated"
	ScheduleEventDeletedType EventType = "schedule.event.deleted"
	ScheduleGroupDeletedType EventType = "schedule.group.deleted"
	ContactMessageSentType   EventType = "contact.message.sent"
)

type ScheduleEventCreated struct {
	Id          int
	Year        int
	Month       int
	Day         int
	Start       string
	End         string
	Title       string
	RepeatGroup string
}

type ScheduleEventUpdated struct {
	Id    int
	Start string
	End   string
	Title string
}

type ScheduleEventDeleted struct {
	Id int
}

type ScheduleGroupDeleted struct {
	RepeatGroup string
	Deleted     int
}

type ContactMessageSent struct {
	Name  string
	Email string
}
