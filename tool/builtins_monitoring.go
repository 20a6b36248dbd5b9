package tool

func monitoringGrouping() Grouping {
	return Grouping{
		Name:        "aws/monitoring",
		Description: "CloudWatch metric and log tools",
		Tools: []Definition{
			{
				Name:        "cloudwatch_metric_alarm",
				Category:    "aws_monitoring",
				Description: "Manage AWS CloudWatch metric alarms",
				Operation:   "cloudwatch_metric_alarm",
				Params: []ParamSpec{
					{Name: "name", Type: "string", Required: true, Description: "Name of the alarm"},
					{Name: "metric_name", Type: "string"},
					{Name: "namespace", Type: "string"},
					{Name: "statistic", Type: "string"},
					{Name: "comparison", Type: "string", Description: "Comparison operator, e.g. GreaterThanThreshold"},
					{Name: "threshold", Type: "any"},
					{Name: "period", Type: "int"},
					{Name: "evaluation_periods", Type: "int"},
					{Name: "unit", Type: "string"},
					{Name: "description", Type: "string"},
					{Name: "dimensions", Type: "map"},
					{Name: "alarm_actions", Type: "list", Description: "ARNs notified on ALARM"},
					{Name: "ok_actions", Type: "list"},
					{Name: "treat_missing_data", Type: "string", Default: "missing"},
				},
			},
			{
				Name:        "cloudwatchlogs_log_group",
				Category:    "aws_monitoring",
				Description: "Manage AWS CloudWatch Logs log groups",
				Operation:   "cloudwatchlogs_log_group",
				Params: []ParamSpec{
					{Name: "name", Type: "string", Required: true, Description: "Name of the log group"},
					{Name: "retention", Type: "int", Description: "Retention in days"},
					{Name: "kms_key_id", Type: "string"},
					{Name: "purge_tags", Type: "bool", Default: true},
				},
			},
		},
	}
}
