package database

import (
	"fmt"
	"log"
	"time"

	"aegisai/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedRole struct {
	name        model.UserRole
	label       string
	description string
	permissions []string
}

var seedRoles = []seedRole{
	{
		name:        model.RoleAdmin,
		label:       "Administrator",
		description: "Full system access including user management and security monitoring",
		permissions: []string{"chat", "admin.dashboard", "admin.users", "admin.roles", "admin.documents", "admin.security"},
	},
	{
		name:        model.RoleSecurity,
		label:       "Security Analyst",
		description: "Access to security dashboard and document-role audit views",
		permissions: []string{"security.dashboard", "security.documents"},
	},
	{
		name:        model.RoleIT,
		label:       "IT Staff",
		description: "Access to IT-related documents via chat interface",
		permissions: []string{"chat"},
	},
	{
		name:        model.RoleHR,
		label:       "Human Resources",
		description: "Access to HR policies and documents via chat interface",
		permissions: []string{"chat"},
	},
	{
		name:        model.RoleFinance,
		label:       "Finance",
		description: "Access to financial documents via chat interface",
		permissions: []string{"chat"},
	},
}

type seedUser struct {
	email    string
	name     string
	role     model.UserRole
	password string
}

var seedUsers = []seedUser{
	{"admin@aegisai.com", "Alex Admin", model.RoleAdmin, "admin123"},
	{"sarah@aegisai.com", "Sarah Security", model.RoleSecurity, "security123"},
	{"ivan@aegisai.com", "Ivan IT", model.RoleIT, "it123"},
	{"hannah@aegisai.com", "Hannah HR", model.RoleHR, "hr123"},
	{"frank@aegisai.com", "Frank Finance", model.RoleFinance, "finance123"},
	{"tina@aegisai.com", "Tina IT", model.RoleIT, "it123"},
}

type seedDocument struct {
	title        string
	description  string
	fileName     string
	fileSize     int64
	allowedRoles []model.UserRole
	status       model.DocumentStatus
	uploadedBy   string
}

var seedDocuments = []seedDocument{
	{
		title:        "Employee Handbook 2025",
		description:  "Company policies, leave entitlements and code of conduct",
		fileName:     "employee-handbook-2025.pdf",
		fileSize:     2457600,
		allowedRoles: []model.UserRole{model.RoleAdmin, model.RoleHR, model.RoleIT, model.RoleFinance},
		status:       model.DocumentActive,
		uploadedBy:   "Hannah HR",
	},
	{
		title:        "IT Security Policy",
		description:  "Password requirements, MFA enrollment and incident reporting",
		fileName:     "it-security-policy.pdf",
		fileSize:     1048576,
		allowedRoles: []model.UserRole{model.RoleAdmin, model.RoleIT, model.RoleSecurity},
		status:       model.DocumentActive,
		uploadedBy:   "Ivan IT",
	},
	{
		title:        "Network Architecture Diagram",
		description:  "VPN topology and internal network segmentation",
		fileName:     "network-architecture.pdf",
		fileSize:     5242880,
		allowedRoles: []model.UserRole{model.RoleAdmin, model.RoleIT},
		status:       model.DocumentActive,
		uploadedBy:   "Ivan IT",
	},
	{
		title:        "Annual Budget Plan",
		description:  "Department allocations for the fiscal year",
		fileName:     "annual-budget-plan.xlsx",
		fileSize:     786432,
		allowedRoles: []model.UserRole{model.RoleAdmin, model.RoleFinance},
		status:       model.DocumentActive,
		uploadedBy:   "Frank Finance",
	},
	{
		title:        "Q1 Financial Report",
		description:  "Quarterly revenue and expense breakdown",
		fileName:     "q1-financial-report.pdf",
		fileSize:     1572864,
		allowedRoles: []model.UserRole{model.RoleAdmin, model.RoleFinance},
		status:       model.DocumentProcessing,
		uploadedBy:   "Frank Finance",
	},
}

// Seed populates roles, permissions, users, documents and sample audit logs
// on first boot. Re-running against an already-seeded database is a no-op for
// existing rows.
func Seed(db *gorm.DB) error {
	if err := seedRolesAndPermissions(db); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	if err := seedUserAccounts(db); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if err := seedDocumentEntries(db); err != nil {
		return fmt.Errorf("seed documents: %w", err)
	}
	if err := seedSecurityEntries(db); err != nil {
		return fmt.Errorf("seed security logs: %w", err)
	}
	return nil
}

func seedRolesAndPermissions(db *gorm.DB) error {
	for _, sr := range seedRoles {
		var existing model.Role
		err := db.Where("name = ?", sr.name).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		perms := make([]model.Permission, 0, len(sr.permissions))
		for _, code := range sr.permissions {
			var p model.Permission
			if err := db.Where("code = ?", code).First(&p).Error; err == gorm.ErrRecordNotFound {
				p = model.Permission{Code: code}
				if err := db.Create(&p).Error; err != nil {
					return err
				}
			} else if err != nil {
				return err
			}
			perms = append(perms, p)
		}

		role := model.Role{
			Name:        sr.name,
			Label:       sr.label,
			Description: sr.description,
			Permissions: perms,
		}
		if err := db.Create(&role).Error; err != nil {
			return err
		}
		log.Printf("Seeded role %q with %d permissions", sr.name, len(perms))
	}
	return nil
}

func seedUserAccounts(db *gorm.DB) error {
	for _, su := range seedUsers {
		var existing model.User
		err := db.Where("email = ?", su.email).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := model.User{
			Email:    su.email,
			Name:     su.name,
			Password: string(hash),
			Role:     su.role,
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
		log.Printf("Seeded user %s (%s)", su.email, su.role)
	}
	return nil
}

func seedDocumentEntries(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Document{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	for _, sd := range seedDocuments {
		doc := model.Document{
			Title:        sd.title,
			Description:  sd.description,
			FileName:     sd.fileName,
			FileSize:     sd.fileSize,
			AllowedRoles: sd.allowedRoles,
			Status:       sd.status,
			UploadedBy:   sd.uploadedBy,
			UploadedAt:   now,
			UpdatedAt:    now,
		}
		if err := db.Create(&doc).Error; err != nil {
			return err
		}
	}
	log.Printf("Seeded %d documents", len(seedDocuments))
	return nil
}

type seedSecurityLog struct {
	userEmail string
	action    string
	resource  string
	age       time.Duration
	ipAddress string
	flagType  model.FlagType
	details   string
}

var seedSecurityLogs = []seedSecurityLog{
	{"admin@aegisai.com", model.ActionLogin, "/auth/login", 26 * time.Hour, "10.0.1.10", model.FlagNone, ""},
	{"hannah@aegisai.com", model.ActionLogin, "/auth/login", 5 * time.Hour, "10.0.2.41", model.FlagNone, ""},
	{"hannah@aegisai.com", model.ActionViewDocument, "document:employee-handbook-2025.pdf", 5 * time.Hour, "10.0.2.41", model.FlagNone, "Employee Handbook 2025"},
	{"admin@aegisai.com", model.ActionUploadDocument, "document:q1-financial-report.pdf", 20 * time.Hour, "10.0.1.10", model.FlagNone, "Q1 Financial Report"},
	{"admin@aegisai.com", model.ActionUpdateRole, "role:it", 19 * time.Hour, "10.0.1.10", model.FlagNone, "permissions updated"},
	{"admin@aegisai.com", model.ActionCreateUser, "user:tina@aegisai.com", 19 * time.Hour, "10.0.1.10", model.FlagNone, ""},
	{"admin@aegisai.com", model.ActionDeleteDocument, "document:old-vpn-guide.pdf", 18 * time.Hour, "10.0.1.10", model.FlagNone, "superseded by network-architecture.pdf"},
	{"admin@aegisai.com", model.ActionDeleteUser, "user:contractor@aegisai.com", 18 * time.Hour, "10.0.1.10", model.FlagNone, "contract ended"},
	{"frank@aegisai.com", model.ActionAccessDenied, "/admin/users", 3 * time.Hour, "10.0.3.77", model.FlagUnauthorizedAccess, "role=finance"},
	{"ivan@aegisai.com", model.ActionSendMessage, "conversation:sample", 2 * time.Hour, "10.0.2.18", model.FlagSuspiciousQuery, "topic=default"},
}

func seedSecurityEntries(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.SecurityLog{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	for _, sl := range seedSecurityLogs {
		var user model.User
		if err := db.Where("email = ?", sl.userEmail).First(&user).Error; err != nil {
			return err
		}
		entry := model.SecurityLog{
			UserID:    user.ID,
			UserName:  user.Name,
			Action:    sl.action,
			Resource:  sl.resource,
			Timestamp: now.Add(-sl.age),
			IPAddress: sl.ipAddress,
			FlagType:  sl.flagType,
			Details:   sl.details,
		}
		if err := db.Create(&entry).Error; err != nil {
			return err
		}
	}
	log.Printf("Seeded %d security log entries", len(seedSecurityLogs))
	return nil
}
