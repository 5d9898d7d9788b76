package storage

// ObjectName is exported for testing
var ObjectName = objectName
