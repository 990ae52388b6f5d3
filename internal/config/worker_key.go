package config

type WorkerKeyStruct struct {
	EnrollmentEventsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	EnrollmentEventsQueue: "enrollment_events_queue",
}
