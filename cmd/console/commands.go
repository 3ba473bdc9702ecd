package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/jrsteele09/go-warehouse-console/console"
	"github.com/jrsteele09/go-warehouse-console/models"
	"github.com/jrsteele09/go-warehouse-console/routes"
	"github.com/jrsteele09/go-warehouse-console/session/redisbus"
	"github.com/spf13/cobra"
)

func table() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func loginCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Check credentials and list the views your role can open",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, routes.RouteDashboard, func(ctx context.Context, con *console.Console) error {
				state := con.Auth.Session()
				fmt.Printf("Signed in as %s (%s)\n\n", state.User, state.Role)
				w := table()
				fmt.Fprintln(w, "VIEW\tPATH")
				for _, r := range con.Router.Table().Visible(state.Role) {
					fmt.Fprintf(w, "%s\t%s\n", r.Name, r.Path)
				}
				return w.Flush()
			})
		},
	}
}

func whoamiCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the identity carried by your access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, routes.RouteProfile, func(ctx context.Context, con *console.Console) error {
				state := con.Auth.Session()
				w := table()
				fmt.Fprintf(w, "User\t%s\n", state.User)
				fmt.Fprintf(w, "Role\t%s\n", state.Role)
				if tok := con.Tokens.Token(); tok != nil && !tok.Expiry.IsZero() {
					fmt.Fprintf(w, "Expires\t%s\n", tok.Expiry.Local().Format("2006-01-02 15:04:05"))
				}
				return w.Flush()
			})
		},
	}
}

func usersCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List backend accounts (ADMIN)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, routes.RouteAdminUsers, func(ctx context.Context, con *console.Console) error {
				users, err := con.API.ListUsers(ctx)
				if err != nil {
					return err
				}
				w := table()
				fmt.Fprintln(w, "ID\tEMAIL\tROLE\tENABLED")
				for _, u := range users {
					fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", u.ID, u.Email, u.Role, u.Enabled)
				}
				return w.Flush()
			})
		},
	}

	setEnabled := func(use string, enabled bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <user-id>",
			Short: use + " a user account",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return withSession(cmd, flags, routes.RouteAdminUsers, func(ctx context.Context, con *console.Console) error {
					if enabled {
						return con.API.EnableUser(ctx, id)
					}
					return con.API.DisableUser(ctx, id)
				})
			},
		}
	}
	cmd.AddCommand(setEnabled("enable", true), setEnabled("disable", false))
	return cmd
}

func warehousesCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "warehouses",
		Short: "List warehouses (ADMIN, WAREHOUSE_MANAGER)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, routes.RouteWarehouses, func(ctx context.Context, con *console.Console) error {
				list, err := con.API.ListWarehouses(ctx)
				if err != nil {
					return err
				}
				w := table()
				fmt.Fprintln(w, "ID\tCODE\tNAME\tLOCATION\tCAPACITY\tMANAGER")
				for _, wh := range list {
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n", wh.ID, wh.Code, wh.Name, wh.Location, wh.Capacity, wh.ManagerName)
				}
				return w.Flush()
			})
		},
	}

	var req models.CreateWarehouseRequest
	var managerID int64
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a warehouse",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.ManagerID = &managerID
			return withSession(cmd, flags, routes.RouteWarehouses, func(ctx context.Context, con *console.Console) error {
				wh, err := con.API.CreateWarehouse(ctx, req)
				if err != nil {
					return err
				}
				fmt.Printf("Created warehouse %d\n", wh.ID)
				return nil
			})
		},
	}
	create.Flags().StringVar(&req.Name, "name", "", "warehouse name")
	create.Flags().StringVar(&req.Location, "location", "", "warehouse location")
	create.Flags().StringVar(&req.Code, "code", "", "warehouse code")
	create.Flags().IntVar(&req.Capacity, "capacity", 0, "storage capacity")
	create.Flags().Int64Var(&managerID, "manager", 0, "user id of the warehouse manager")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("code")
	_ = create.MarkFlagRequired("manager")

	remove := &cobra.Command{
		Use:   "delete <warehouse-id>",
		Short: "Delete a warehouse",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, flags, routes.RouteWarehouses, func(ctx context.Context, con *console.Console) error {
				return con.API.DeleteWarehouse(ctx, id)
			})
		},
	}

	cmd.AddCommand(create, remove)
	return cmd
}

func productsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List products (ADMIN, WAREHOUSE_MANAGER)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, routes.RouteProducts, func(ctx context.Context, con *console.Console) error {
				list, err := con.API.ListProducts(ctx)
				if err != nil {
					return err
				}
				w := table()
				fmt.Fprintln(w, "ID\tSKU\tNAME\tPRICE")
				for _, p := range list {
					fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\n", p.ID, p.SKU, p.Name, p.Price)
				}
				return w.Flush()
			})
		},
	}
}

func inventoryCmd(flags *globalFlags) *cobra.Command {
	var warehouseID int64
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "List stock held in a warehouse",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, routes.RouteInventory, func(ctx context.Context, con *console.Console) error {
				list, err := con.API.ListInventory(ctx, warehouseID)
				if err != nil {
					return err
				}
				w := table()
				fmt.Fprintln(w, "PRODUCT\tSKU\tNAME\tQUANTITY\tREORDER AT\t")
				for _, inv := range list {
					flag := ""
					if inv.NeedsReorder() {
						flag = "LOW"
					}
					fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%s\n", inv.ProductID, inv.SKU, inv.ProductName, inv.Quantity, inv.ReorderThreshold, flag)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().Int64VarP(&warehouseID, "warehouse", "w", 0, "warehouse id")
	_ = cmd.MarkFlagRequired("warehouse")

	var quantity int
	var productID int64
	set := &cobra.Command{
		Use:   "set",
		Short: "Set the stock level of a product in a warehouse",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, routes.RouteInventory, func(ctx context.Context, con *console.Console) error {
				inv, err := con.API.UpdateInventoryQuantity(ctx, warehouseID, productID, quantity)
				if err != nil {
					return err
				}
				fmt.Printf("%s: %d\n", inv.ProductName, inv.Quantity)
				return nil
			})
		},
	}
	set.Flags().Int64VarP(&warehouseID, "warehouse", "w", 0, "warehouse id")
	set.Flags().Int64VarP(&productID, "product", "p", 0, "product id")
	set.Flags().IntVar(&quantity, "quantity", 0, "new quantity")
	_ = set.MarkFlagRequired("warehouse")
	_ = set.MarkFlagRequired("product")

	cmd.AddCommand(set)
	return cmd
}

func ordersCmd(flags *globalFlags) *cobra.Command {
	var warehouseID int64
	var status string
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List orders by warehouse or by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (warehouseID == 0) == (status == "") {
				return fmt.Errorf("exactly one of --warehouse or --status is required")
			}
			var parsed models.OrderStatus
			if status != "" {
				var err error
				if parsed, err = models.ParseOrderStatus(status); err != nil {
					return err
				}
			}
			return withSession(cmd, flags, routes.RouteOrders, func(ctx context.Context, con *console.Console) error {
				var list []models.OrderResponse
				var err error
				if parsed != "" {
					list, err = con.API.ListOrdersByStatus(ctx, parsed)
				} else {
					list, err = con.API.ListOrdersByWarehouse(ctx, warehouseID)
				}
				if err != nil {
					return err
				}
				w := table()
				fmt.Fprintln(w, "ID\tWAREHOUSE\tCUSTOMER\tSTATUS\tITEMS\tTOTAL\tASSIGNED")
				for _, o := range list {
					fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%d\t%.2f\t%s\n", o.ID, o.WarehouseID, o.CustomerName, o.Status, len(o.Items), o.TotalAmount, o.AssignedStaffName)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().Int64VarP(&warehouseID, "warehouse", "w", 0, "warehouse id")
	cmd.Flags().StringVarP(&status, "status", "s", "", "order status ("+statusList()+")")

	track := &cobra.Command{
		Use:   "track <order-id>",
		Short: "Show the status history of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, flags, routes.RouteOrderTracking, func(ctx context.Context, con *console.Console) error {
				tracking, err := con.API.GetOrderTracking(ctx, id)
				if err != nil {
					return err
				}
				fmt.Printf("Order %d is %s\n\n", id, tracking.Current())
				w := table()
				fmt.Fprintln(w, "STATUS\tREACHED")
				for _, step := range tracking.Steps() {
					fmt.Fprintf(w, "%s\t%s\n", step.Status, step.At.Local().Format("2006-01-02 15:04"))
				}
				return w.Flush()
			})
		},
	}

	advance := &cobra.Command{
		Use:   "status <order-id> <status>",
		Short: "Move an order to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			next, err := models.ParseOrderStatus(args[1])
			if err != nil {
				return err
			}
			return withSession(cmd, flags, routes.RouteOrders, func(ctx context.Context, con *console.Console) error {
				order, err := con.API.UpdateOrderStatus(ctx, id, next)
				if err != nil {
					return err
				}
				fmt.Printf("Order %d is now %s\n", order.ID, order.Status)
				return nil
			})
		},
	}

	assign := &cobra.Command{
		Use:   "assign <order-id> <staff-id>",
		Short: "Assign an order to a staff member (ADMIN, WAREHOUSE_MANAGER)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			staffID, err := parseID(args[1])
			if err != nil {
				return err
			}
			return withSession(cmd, flags, routes.RouteOrderCreate, func(ctx context.Context, con *console.Console) error {
				_, err := con.API.AssignOrder(ctx, id, staffID)
				return err
			})
		},
	}

	cmd.AddCommand(track, advance, assign)
	return cmd
}

func statusList() string {
	out := ""
	for i, s := range models.OrderStatuses {
		if i > 0 {
			out += ", "
		}
		out += string(s)
	}
	return out
}

func watchCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow session changes published by other consoles (needs REDIS_ADDR)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, con, closeFn, err := open(cmd, flags)
			if err != nil {
				return err
			}
			defer closeFn()
			if con.Bus == nil {
				return fmt.Errorf("no redis address configured")
			}

			stop, err := con.Bus.Listen(ctx, func(ev redisbus.Event) {
				fmt.Printf("%s  %-14s %s %s %s\n", ev.At.Local().Format("15:04:05"), colourPhase(ev.Phase), ev.User, ev.Role, ev.Error)
			})
			if err != nil {
				return err
			}
			<-ctx.Done()
			return stop()
		},
	}
}
