package logger

// Component-specific logger functions

// Store returns a logger for debt store operations
func Store() Logger {
	return WithField("component", "store")
}

// Reminder returns a logger for reminder scheduling
func Reminder() Logger {
	return WithField("component", "reminder")
}

// Dispatcher returns a logger for notification delivery
func Dispatcher() Logger {
	return WithField("component", "dispatcher")
}

// HTTP returns a logger for the API server
func HTTP() Logger {
	return WithField("component", "http")
}

// CLI returns a logger for debtctl
func CLI() Logger {
	return WithField("component", "cli")
}
