package tool

func storageGrouping() Grouping {
	return Grouping{
		Name:        "aws/storage",
		Description: "S3, EBS, and EFS tools",
		Tools: []Definition{
			{
				Name:        "s3_bucket",
				Category:    "aws_storage",
				Description: "Manage AWS S3 buckets",
				Operation:   "s3_bucket",
				Params: []ParamSpec{
					{Name: "name", Type: "string", Required: true, Description: "Name of the S3 bucket"},
					{Name: "policy", Type: "map", Description: "Bucket policy document"},
					{Name: "versioning", Type: "bool", Description: "Enable or suspend versioning"},
					{Name: "encryption", Type: "string", Description: "Encryption type: AES256, aws:kms, aws:kms:dsse"},
					{Name: "encryption_key_id", Type: "string", Description: "KMS key for aws:kms encryption"},
					{Name: "bucket_key_enabled", Type: "bool", Default: false},
					{Name: "public_access_block", Type: "map", Description: "Public access block settings"},
					{Name: "object_lock_enabled", Type: "bool", Default: false},
					{Name: "acl", Type: "string", Description: "Canned ACL"},
					{Name: "requester_pays", Type: "bool", Default: false},
					{Name: "purge_tags", Type: "bool", Default: true},
					{Name: "validate_bucket_name", Type: "bool", Default: true},
				},
			},
		},
	}
}
