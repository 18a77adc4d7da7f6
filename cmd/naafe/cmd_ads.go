package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Ahmed01061/Naafe/internal/ads"
)

var adsCmd = &cobra.Command{
	Use:   "ads",
	Short: "Advertise your services",
	Long: `Browse advertising plans and buy a promotion.

Examples:
  naafe ads plans
  naafe ads purchase --plan sidebar --duration monthly --title "سباكة" --description "..." --image ad.png`,
}

var adsPlansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Show advertising plans and prices",
	Run:   runAdsPlans,
}

var adsPurchaseCmd = &cobra.Command{
	Use:   "purchase",
	Short: "Create an ad and open its checkout",
	RunE:  runAdsPurchase,
}

func init() {
	adsCmd.AddCommand(adsPlansCmd)
	adsCmd.AddCommand(adsPurchaseCmd)

	f := adsPurchaseCmd.Flags()
	f.String("plan", "featured", "Plan id (featured, sidebar, banner)")
	f.String("duration", string(ads.Daily), "Duration (daily, weekly, monthly)")
	f.String("title", "", "Ad title")
	f.String("description", "", "Ad description")
	f.String("image", "", "Path of an image to upload")
	f.String("image-url", "", "URL of an already hosted image")
	f.String("target", "", "Where the ad links to")
}

func runAdsPlans(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()
	for _, p := range ads.Plans() {
		fmt.Fprintf(out, "%s  %s (%s)\n", p.ID, p.Title, p.Label)
		fmt.Fprintf(out, "  %s\n", p.Description)
		fmt.Fprintf(out, "  %s\n", p.Reach)
		for _, d := range ads.Durations {
			price, _ := p.Price(d)
			fmt.Fprintf(out, "  %-8s %s جنيه %s\n", d, price.String(), d.Per())
		}
		fmt.Fprintf(out, "  %s\n\n", strings.Join(p.Features, " · "))
	}
}

func runAdsPurchase(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.flushToasts(cmd)

	f := cmd.Flags()
	plan, _ := f.GetString("plan")
	duration, _ := f.GetString("duration")
	form := ads.Form{}
	form.Title, _ = f.GetString("title")
	form.Description, _ = f.GetString("description")
	form.ImageURL, _ = f.GetString("image-url")
	form.TargetURL, _ = f.GetString("target")

	if path, _ := f.GetString("image"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		uploader := ads.NewImageUploader(ads.UploaderConfig{
			APIKey:  a.cfg.ImgBBAPIKey,
			Timeout: a.cfg.HTTPTimeout,
		}, a.notify, a.log)
		link, err := uploader.Upload(cmd.Context(), filepath.Base(path), data)
		if err != nil {
			return err
		}
		form.ImageURL = link
	}

	purchaser := ads.NewPurchaser(a.client, a.notify, a.log)
	checkoutURL, err := purchaser.Purchase(cmd.Context(), plan, ads.Duration(duration), form)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "checkout: %s\n", checkoutURL)
	return nil
}
