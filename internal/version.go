package internal

// Version is the babel release version.
const Version = "0.3.0"
