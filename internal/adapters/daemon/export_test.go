package daemon

// ReadRequest exposes readRequest for testing.
var ReadRequest = readRequest

// ReadAnnouncement exposes readAnnouncement for testing.
var ReadAnnouncement = readAnnouncement
