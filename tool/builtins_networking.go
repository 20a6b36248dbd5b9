package tool

func networkingGrouping() Grouping {
	return Grouping{
		Name:        "aws/networking",
		Description: "VPC, subnet, gateway, and load balancer tools",
		Tools: []Definition{
			{
				Name:        "ec2_vpc_net",
				Category:    "aws_networking",
				Description: "Manage AWS Virtual Private Cloud (VPC)",
				Operation:   "ec2_vpc_net",
				Params: []ParamSpec{
					{Name: "name", Type: "string", Required: true, Description: "Name tag of the VPC"},
					{Name: "cidr_block", Type: "string", Required: true, Description: "Primary IPv4 CIDR block"},
					{Name: "dns_hostnames", Type: "bool", Default: true},
					{Name: "dns_support", Type: "bool", Default: true},
					{Name: "instance_tenancy", Type: "string", Default: "default"},
					{Name: "purge_cidrs", Type: "bool", Default: false},
					{Name: "purge_tags", Type: "bool", Default: true},
					{Name: "dhcp_opts_id", Type: "string"},
				},
			},
			{
				Name:        "ec2_vpc_subnet",
				Category:    "aws_networking",
				Description: "Manage AWS VPC subnets",
				Operation:   "ec2_vpc_subnet",
				Params: []ParamSpec{
					{Name: "name", Type: "string", Required: true, Description: "Name tag of the subnet"},
					{Name: "vpc_id", Type: "string", Required: true, Description: "VPC the subnet belongs to"},
					{Name: "cidr", Type: "string", Required: true, Description: "IPv4 CIDR block"},
					{Name: "availability_zone", Type: "string"},
					{Name: "map_public", Type: "bool", Default: false, Description: "Assign public IPs on launch"},
					{Name: "ipv6_cidr", Type: "string"},
					{Name: "purge_tags", Type: "bool", Default: true},
					{Name: "wait", Type: "bool", Default: true},
				},
			},
			{
				Name:        "ec2_vpc_igw",
				Category:    "aws_networking",
				Description: "Manage AWS VPC Internet Gateway",
				Operation:   "ec2_vpc_igw",
				Params: []ParamSpec{
					{Name: "name", Type: "string", Required: true, Description: "Name tag of the gateway"},
					{Name: "vpc_id", Type: "string", Required: true, Description: "VPC to attach the gateway to"},
					{Name: "purge_tags", Type: "bool", Default: true},
				},
			},
			{
				Name:        "ec2_security_group",
				Category:    "aws_networking",
				Description: "Manage AWS EC2 security groups",
				Operation:   "ec2_security_group",
				Params: []ParamSpec{
					{Name: "name", Type: "string", Required: true, Description: "Name of the security group"},
					{Name: "description", Type: "string", Required: true, Description: "Group description (immutable after creation)"},
					{Name: "vpc_id", Type: "string"},
					{Name: "rules", Type: "list", Description: "Ingress rules"},
					{Name: "rules_egress", Type: "list", Description: "Egress rules"},
					{Name: "purge_rules", Type: "bool", Default: true},
					{Name: "purge_rules_egress", Type: "bool", Default: true},
					{Name: "purge_tags", Type: "bool", Default: true},
				},
			},
			{
				Name:        "elb_application_lb",
				Category:    "aws_networking",
				Description: "Manage AWS Application Load Balancer for HTTP/HTTPS traffic",
				Operation:   "elb_application_lb",
				Params: []ParamSpec{
					{Name: "name", Type: "string", Required: true, Description: "Name of the load balancer"},
					{Name: "scheme", Type: "string", Default: "internet-facing"},
					{Name: "subnets", Type: "list", Description: "Subnet IDs to attach"},
					{Name: "security_groups", Type: "list"},
					{Name: "ip_address_type", Type: "string", Default: "ipv4"},
					{Name: "listeners", Type: "list", Description: "Listener configurations"},
					{Name: "deletion_protection", Type: "bool", Default: false},
					{Name: "idle_timeout", Type: "int"},
					{Name: "access_logs_enabled", Type: "bool", Default: false},
					{Name: "access_logs_s3_bucket", Type: "string"},
					{Name: "access_logs_s3_prefix", Type: "string"},
				},
			},
		},
	}
}
