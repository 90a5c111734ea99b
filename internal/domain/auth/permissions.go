package auth

const (
	RoleViewer = "VIEWER"
	RoleHR     = "HR"
	RoleAdmin  = "ADMIN"
)

const (
	PermDirectoryRead  = "directory.read"
	PermDirectoryWrite = "directory.write"
	PermCampaignRead   = "campaign.read"
	PermCampaignWrite  = "campaign.write"
	PermCampaignLaunch = "campaign.launch"
	PermExportRead     = "export.read"
	PermAuditRead      = "audit.read"
)

var DefaultPermissions = []string{
	PermDirectoryRead,
	PermDirectoryWrite,
	PermCampaignRead,
	PermCampaignWrite,
	PermCampaignLaunch,
	PermExportRead,
	PermAuditRead,
}

var RolePermissions = map[string][]string{
	RoleViewer: {
		PermDirectoryRead,
		PermCampaignRead,
	},
	RoleHR: {
		PermDirectoryRead,
		PermCampaignRead,
		PermCampaignWrite,
		PermCampaignLaunch,
		PermExportRead,
	},
	RoleAdmin: DefaultPermissions,
}

func HasPermission(role, perm string) bool {
	for _, p := range RolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}
