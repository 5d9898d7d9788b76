package slack

// TruncateToMaxBytes exposes the UTF-8 safe truncation used by SectionText
var TruncateToMaxBytes = truncateToMaxBytes
