package entities

// Section is a screen of the clinic application
type Section string

const (
	SectionHome            Section = "home"
	SectionLoading         Section = "loading"
	SectionDashboard       Section = "dashboard"
	SectionBookAppointment Section = "book-appointment"
	SectionAppointments    Section = "appointments"
	SectionPatients        Section = "patients"
	SectionWalkIn          Section = "walk-in"
	SectionMyProfile       Section = "my-profile"
)

// ParseSection normalizes a requested section name. Legacy aliases map onto
// their canonical section; anything else is returned unchanged.
func ParseSection(raw string) Section {
	if raw == "walk-in-patient" {
		return SectionWalkIn
	}
	return Section(raw)
}

// Operation is an action a role may be allowed to perform
type Operation string

const (
	OperationBookAppointment       Operation = "appointment:book"
	OperationViewAppointments      Operation = "appointment:view"
	OperationTransitionAppointment Operation = "appointment:transition"
	OperationDeleteAppointment     Operation = "appointment:delete"
	OperationEnqueueWalkIn         Operation = "walkin:enqueue"
	OperationDequeueWalkIn         Operation = "walkin:dequeue"
	OperationViewWalkIns           Operation = "walkin:view"
	OperationCreateRecord          Operation = "record:create"
	OperationViewRecords           Operation = "record:view"
	OperationEditRecord            Operation = "record:edit"
	OperationViewDashboard         Operation = "dashboard:view"
	OperationViewProfile           Operation = "profile:view"
	OperationStreamEvents          Operation = "events:stream"
)
