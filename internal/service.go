package internal

import "github.com/deevus/nexus-tui/internal/nexus"

// Services holds the remote collaborators for one Nexus server.
type Services struct {
	SystemInformation nexus.SystemInformationReader
	Downloader        nexus.Downloader
	Storage           nexus.StorageBrowser
}

// NewServices creates a Services container from the given interfaces.
func NewServices(si nexus.SystemInformationReader, dl nexus.Downloader, sb nexus.StorageBrowser) *Services {
	return &Services{
		SystemInformation: si,
		Downloader:        dl,
		Storage:           sb,
	}
}

// NewClientServices backs every service with one client.
func NewClientServices(c *nexus.Client) *Services {
	return NewServices(c, c, c)
}
