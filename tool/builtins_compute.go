package tool

func computeGrouping() Grouping {
	return Grouping{
		Name:        "aws/compute",
		Description: "EC2, Lambda, and Auto Scaling tools",
		Tools: []Definition{
			{
				Name:        "lambda_function",
				Category:    "aws_compute",
				Description: "Manage AWS Lambda functions",
				Operation:   "lambda_function",
				Params: []ParamSpec{
					{Name: "name", Type: "string", Required: true, Description: "Name of the Lambda function"},
					{Name: "runtime", Type: "string", Description: "Runtime identifier, e.g. python3.12"},
					{Name: "role", Type: "string", Description: "Execution role ARN"},
					{Name: "handler", Type: "string", Description: "Entry point handler"},
					{Name: "zip_file", Type: "string", Description: "Path to deployment package"},
					{Name: "s3_bucket", Type: "string", Description: "Bucket holding the deployment package"},
					{Name: "s3_key", Type: "string", Description: "Key of the deployment package"},
					{Name: "timeout", Type: "int", Description: "Function timeout in seconds"},
					{Name: "memory_size", Type: "int", Description: "Memory in MB"},
					{Name: "environment", Type: "map", Description: "Environment variables"},
					{Name: "layers", Type: "list", Description: "Layer ARNs"},
					{Name: "vpc_config", Type: "map", Description: "VPC subnet and security group configuration"},
					{Name: "purge_tags", Type: "bool", Default: true},
				},
			},
			{
				Name:        "lambda_policy",
				Category:    "aws_compute",
				Description: "Manage AWS Lambda function policies and permissions",
				Operation:   "lambda_policy",
				Params: []ParamSpec{
					{Name: "name", Type: "string", Required: true, Description: "Statement identity for the permission"},
					{Name: "function_name", Type: "string", Required: true, Description: "Lambda function the policy applies to"},
					{Name: "statement_id", Type: "string", Description: "Unique statement identifier"},
					{Name: "action", Type: "string", Description: "Action the principal is granted, e.g. lambda:InvokeFunction"},
					{Name: "principal", Type: "string", Description: "Service or account receiving the permission"},
					{Name: "source_arn", Type: "string", Description: "ARN the permission is scoped to"},
					{Name: "source_account", Type: "string"},
					{Name: "qualifier", Type: "string", Description: "Function version or alias"},
				},
			},
		},
	}
}
