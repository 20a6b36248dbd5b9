package tool

func databaseGrouping() Grouping {
	return Grouping{
		Name:        "aws/database",
		Description: "RDS and DynamoDB tools",
		Tools: []Definition{
			{
				Name:        "dynamodb_table",
				Category:    "aws_database",
				Description: "Manage AWS DynamoDB tables",
				Operation:   "dynamodb_table",
				Params: []ParamSpec{
					{Name: "name", Type: "string", Required: true, Description: "Name of the DynamoDB table"},
					{Name: "billing_mode", Type: "string", Default: "PAY_PER_REQUEST"},
					{Name: "hash_key_name", Type: "string", Description: "Partition key attribute"},
					{Name: "hash_key_type", Type: "string", Default: "S"},
					{Name: "range_key_name", Type: "string", Description: "Sort key attribute"},
					{Name: "range_key_type", Type: "string", Default: "S"},
					{Name: "read_capacity", Type: "int", Description: "Provisioned reads (PROVISIONED mode only)"},
					{Name: "write_capacity", Type: "int", Description: "Provisioned writes (PROVISIONED mode only)"},
					{Name: "global_secondary_indexes", Type: "list"},
					{Name: "local_secondary_indexes", Type: "list"},
					{Name: "stream_specification", Type: "map"},
					{Name: "point_in_time_recovery", Type: "bool", Default: true},
					{Name: "wait", Type: "bool", Default: true},
					{Name: "wait_timeout", Type: "int", Default: 600},
				},
			},
		},
	}
}
