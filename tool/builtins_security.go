package tool

func securityGrouping() Grouping {
	return Grouping{
		Name:        "aws/security",
		Description: "IAM, KMS, and certificate tools",
		Tools: []Definition{
			{
				Name:        "iam_role",
				Category:    "aws_security",
				Description: "Manage AWS IAM roles",
				Operation:   "iam_role",
				Params: []ParamSpec{
					{Name: "name", Type: "string", Required: true, Description: "Name of the IAM role"},
					{Name: "assume_role_policy_document", Type: "map", Description: "Trust policy document"},
					{Name: "managed_policies", Type: "list", Description: "Managed policy ARNs to attach"},
					{Name: "max_session_duration", Type: "int"},
					{Name: "path", Type: "string", Default: "/"},
					{Name: "description", Type: "string"},
					{Name: "permissions_boundary", Type: "string"},
					{Name: "purge_policies", Type: "bool", Default: true},
					{Name: "purge_tags", Type: "bool", Default: true},
					{Name: "create_instance_profile", Type: "bool", Default: true},
				},
			},
			{
				Name:        "iam_policy",
				Category:    "aws_security",
				Description: "Manage AWS IAM managed policies",
				Operation:   "iam_policy",
				Params: []ParamSpec{
					{Name: "name", Type: "string", Required: true, Description: "Name of the managed policy"},
					{Name: "policy", Type: "map", Description: "Policy document"},
					{Name: "path", Type: "string", Default: "/"},
					{Name: "description", Type: "string"},
					{Name: "only_version", Type: "bool", Default: false},
					{Name: "purge_tags", Type: "bool", Default: true},
				},
			},
			{
				Name:        "kms_key",
				Category:    "aws_security",
				Description: "Manage AWS KMS keys for encryption and access control",
				Operation:   "kms_key",
				Params: []ParamSpec{
					{Name: "name", Type: "string", Required: true, Description: "Alias identity of the key"},
					{Name: "key_id", Type: "string", Description: "Existing key to manage"},
					{Name: "description", Type: "string"},
					{Name: "enabled", Type: "bool", Default: true},
					{Name: "multi_region", Type: "bool", Default: false},
					{Name: "enable_key_rotation", Type: "bool"},
					{Name: "key_spec", Type: "string", Default: "SYMMETRIC_DEFAULT"},
					{Name: "key_usage", Type: "string", Default: "ENCRYPT_DECRYPT"},
					{Name: "pending_window", Type: "int", Description: "Deletion waiting period in days"},
					{Name: "policy", Type: "map"},
					{Name: "grants", Type: "list"},
				},
			},
			{
				Name:        "acm_certificate",
				Category:    "aws_security",
				Description: "Manage AWS Certificate Manager certificates",
				Operation:   "acm_certificate",
				Params: []ParamSpec{
					{Name: "name", Type: "string", Required: true, Description: "Name tag of the certificate"},
					{Name: "domain_name", Type: "string", Description: "Domain to request a certificate for"},
					{Name: "certificate_arn", Type: "string", Description: "Existing certificate to manage"},
					{Name: "certificate", Type: "string", Description: "PEM body for import"},
					{Name: "private_key", Type: "string", Description: "PEM private key for import"},
					{Name: "certificate_chain", Type: "string"},
					{Name: "purge_tags", Type: "bool", Default: true},
				},
			},
			{
				Name:        "aap_certificate_generator",
				Category:    "aws_security",
				Description: "Generate client certificates from an ACM Private CA for platform installations",
				Operation:   "aap_certificate_generator",
				Params: []ParamSpec{
					{Name: "name", Type: "string", Required: true, Description: "Name tag of the issued certificate"},
					{Name: "customer_id", Type: "string", Required: true, Description: "Customer identifier for the certificate subject"},
					{Name: "installation_id", Type: "string", Required: true, Description: "Installation identifier for the certificate subject"},
					{Name: "ca_arn", Type: "string", Required: true, Description: "ACM Private CA to issue the certificate from"},
					{Name: "key_size", Type: "int", Default: 2048},
					{Name: "validity_period", Type: "map", Description: "Validity configuration, defaulting to 730 days"},
					{Name: "signing_algorithm", Type: "string", Default: "SHA256WITHRSA"},
					{Name: "subject_additional_fields", Type: "map", Description: "Extra distinguished-name fields"},
					{Name: "store_private_key", Type: "bool", Default: false},
					{Name: "output_format", Type: "string", Default: "pem"},
				},
			},
			{
				Name:        "acm_private_ca",
				Category:    "aws_security",
				Description: "Manage AWS Private Certificate Authorities",
				Operation:   "acm_private_ca",
				Params: []ParamSpec{
					{Name: "name", Type: "string", Required: true, Description: "Name tag of the CA"},
					{Name: "ca_type", Type: "string", Default: "SUBORDINATE"},
					{Name: "key_algorithm", Type: "string", Default: "RSA_2048"},
					{Name: "signing_algorithm", Type: "string", Default: "SHA256WITHRSA"},
					{Name: "subject", Type: "map", Description: "Distinguished name fields"},
					{Name: "revocation_configuration", Type: "map"},
				},
			},
		},
	}
}
