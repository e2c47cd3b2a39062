package common

// Version подменяется при сборке: -ldflags "-X wardflow/internal/application/common.Version=..."
var Version = "0.1.0-dev"
