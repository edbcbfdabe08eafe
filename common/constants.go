package common

// TispVersion is the current Tisp version as a string.
const TispVersion string = "1.0.0"

// TispFileExt is the file extension for a Tisp source file.
const TispFileExt string = ".tsp"

// TispConfigFileName is the name for Tisp build configuration files.
const TispConfigFileName string = "tisp.toml"
